package flashraid

// synchronizer carries the register snapshot from the management
// domain into one host clock domain. The snapshot passes through two
// destination-clocked capture stages ([CDC-SNUG] double registering),
// and the shadow consumed by routing logic adopts the staged value
// only while the host is quiescent (chip select deasserted). A host
// that never deasserts its chip select never observes the update;
// forcing it through mid-transaction would glitch live routing.
type synchronizer struct {
	stage1 Config
	stage2 Config
	shadow Config
}

func (s *synchronizer) reset(cfg Config) {
	s.stage1 = cfg
	s.stage2 = cfg
	s.shadow = cfg
}

// tick advances the synchronizer by one destination-domain clock.
// All three registers update from their pre-tick inputs, as flops do.
func (s *synchronizer) tick(src Config, quiescent bool) {
	if quiescent {
		s.shadow = s.stage2
	}
	s.stage2 = s.stage1
	s.stage1 = src
}
