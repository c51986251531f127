package planner

// pointToPoint finds the earliest arrival at a single destination. It is
// used to stitch consecutive stops of a loop tour.
type pointToPoint struct {
	maxRounds          int
	minTransferMinutes int
}

func (s *pointToPoint) Challenge() Challenge {
	return "point-to-point"
}

func (s *pointToPoint) Constraints() Constraints {
	return Constraints{
		MaxRounds:          s.maxRounds,
		MinTransferMinutes: s.minTransferMinutes,
	}
}

func (s *pointToPoint) Beam() BeamParameters {
	return BeamParameters{}
}

func (s *pointToPoint) Score(label *Label) float64 {
	return -float64(label.Arrival)
}

func (s *pointToPoint) Dominates(a *Label, b *Label) bool {
	return paretoDominates(a, b, byArrival)
}

func (s *pointToPoint) Equivalent(a *Label, b *Label) bool {
	return equivalent(a, b, byArrival)
}

func (s *pointToPoint) Accept(label *Label) bool {
	return true
}
