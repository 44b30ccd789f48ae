package batch

// Sequencer releases finished indices to emit in ascending order, holding
// back any index whose predecessors are still running. Not safe for
// concurrent use; Execute calls observe from a single goroutine.
type Sequencer struct {
	done []bool
	next int
	emit func(int)
}

func NewSequencer(n int, emit func(int)) *Sequencer {
	return &Sequencer{done: make([]bool, n), emit: emit}
}

// Done marks index i finished and emits every index now unblocked.
func (s *Sequencer) Done(i int) {
	if i < 0 || i >= len(s.done) || s.done[i] {
		return
	}
	s.done[i] = true
	for s.next < len(s.done) && s.done[s.next] {
		if s.emit != nil {
			s.emit(s.next)
		}
		s.next++
	}
}
