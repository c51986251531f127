package planner

type LongestDuration struct {
	TransferPenalty float64
}

func NewLongestDuration() *LongestDuration {
	return &LongestDuration{TransferPenalty: 800}
}

func (s *LongestDuration) Challenge() Challenge {
	return ChallengeLongestDuration
}

func (s *LongestDuration) Constraints() Constraints {
	return Constraints{
		MaxRounds:          50,
		MinTransferMinutes: 5,
		MaxStopVisits:      3,
		OriginMaxVisits:    3,
		MaxLineVisits:      2,
	}
}

func (s *LongestDuration) Beam() BeamParameters {
	return BeamParameters{
		MaxQueue:      2500,
		MaxExpansions: 150000,
		MaxBranch:     6,
	}
}

func (s *LongestDuration) Score(label *Label) float64 {
	metrics := label.Metrics()

	return float64(label.RideMinutes)*10000 +
		float64(metrics.UniqueLines)*600 +
		float64(metrics.Quadrants)*1800 +
		metrics.AvgRadius*160 +
		metrics.BoundaryRatio*2200 -
		metrics.CentreRatio*4000 -
		metrics.ShortLegRatio*3000 -
		float64(metrics.RepeatPenalty)*500 -
		float64(metrics.StopRepeatTotal)*900 -
		float64(label.Transfers())*s.TransferPenalty
}

var longestDurationAxes = []axis{
	func(label *Label) float64 { return float64(label.RideMinutes) },
	func(label *Label) float64 { return float64(label.Metrics().UniqueLines) },
	byArrival,
}

func (s *LongestDuration) Dominates(a *Label, b *Label) bool {
	return paretoDominates(a, b, longestDurationAxes...)
}

func (s *LongestDuration) Equivalent(a *Label, b *Label) bool {
	return equivalent(a, b, longestDurationAxes...)
}

func (s *LongestDuration) Accept(label *Label) bool {
	return label.RideMinutes > 0
}
