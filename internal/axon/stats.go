package axon

// Stats counts the outcomes of every stochastic move since New.
type Stats struct {
	Steps int

	Births         int
	SeedCollisions int

	GrowthAttempts    int
	GrowthAccepted    int
	GrowthCollisions  int
	GrowthOutOfBounds int

	FluctAttempts    int
	FluctAccepted    int
	FluctRejected    int
	FluctCollisions  int
	FluctOutOfBounds int

	LinksFormed  int
	LinksRefused int
	LinksBroken  int
}

// AcceptanceRate is the fraction of energy-evaluated fluctuations that
// were accepted, or 0 before any were evaluated.
func (s Stats) AcceptanceRate() float64 {
	n := s.FluctAccepted + s.FluctRejected
	if n == 0 {
		return 0
	}
	return float64(s.FluctAccepted) / float64(n)
}

// Stats returns a snapshot of the move counters.
func (a *Axon) Stats() Stats { return a.stats }
