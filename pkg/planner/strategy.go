package planner

import "fmt"

type Challenge string

const (
	ChallengeLongestDuration Challenge = "longest-duration"
	ChallengeMostStops       Challenge = "most-unique-stops"
	ChallengeCityLoop        Challenge = "city-loop"
	ChallengeLongestDistance Challenge = "longest-distance"
)

var Challenges = []Challenge{
	ChallengeLongestDuration,
	ChallengeMostStops,
	ChallengeCityLoop,
	ChallengeLongestDistance,
}

// Constraints bound how a strategy may extend labels. Zero caps are
// unlimited.
type Constraints struct {
	MaxRounds          int
	MinTransferMinutes int

	MaxStopVisits      int
	OriginMaxVisits    int
	MaxLineVisits      int
	ForbidRepeatVisits bool

	RequireAllQuadrants bool

	// Geometry enables hull and angular metrics, which walk the whole path.
	Geometry bool
}

type BeamParameters struct {
	MaxQueue      int
	MaxExpansions int
	MaxBranch     int
	RequireUnique bool

	// StopAtFullCoverage ends the search on the first completion covering
	// every quadrant.
	StopAtFullCoverage bool
}

// Strategy decides what a good itinerary is for one challenge.
type Strategy interface {
	Challenge() Challenge
	Constraints() Constraints
	Beam() BeamParameters

	Score(label *Label) float64
	// Dominates must be a strict partial order.
	Dominates(a *Label, b *Label) bool
	Accept(label *Label) bool
}

func StrategyFor(challenge Challenge) (Strategy, error) {
	switch challenge {
	case ChallengeLongestDuration:
		return NewLongestDuration(), nil
	case ChallengeMostStops:
		return NewMostStops(), nil
	case ChallengeCityLoop:
		return NewCityLoop(), nil
	case ChallengeLongestDistance:
		return NewLongestDistance(), nil
	default:
		return nil, fmt.Errorf("unknown challenge %q", challenge)
	}
}

// axis reads a criterion where larger values are better.
type axis func(label *Label) float64

func byArrival(label *Label) float64 {
	return -float64(label.Arrival)
}

// paretoDominates holds when a is at least as good as b on every axis and
// on score, and strictly better on one of them.
func paretoDominates(a *Label, b *Label, axes ...axis) bool {
	strictly := false

	for _, criterion := range axes {
		valueA, valueB := criterion(a), criterion(b)
		if valueA < valueB {
			return false
		}
		if valueA > valueB {
			strictly = true
		}
	}

	if a.Score < b.Score {
		return false
	}

	return strictly || a.Score > b.Score
}

// equivalent holds when neither label can be told apart on the axes or score.
func equivalent(a *Label, b *Label, axes ...axis) bool {
	for _, criterion := range axes {
		if criterion(a) != criterion(b) {
			return false
		}
	}
	return a.Score == b.Score
}
