package nfca

import "sync/atomic"

// Stats accumulates counters for the life of a Decoder instance (spec
// section 4.8). All fields are updated with atomic operations so a
// caller may read them from another goroutine while Process runs,
// mirroring the counter style of the teacher's decoder_metrics.go.
type Stats struct {
	FramesCompleted  uint64
	BytesEmitted     uint64
	ParityFailures   uint64
	TruncatedFrames  uint64
	IllegalSequences uint64
	MismatchedHalves uint64
}

func (s *Stats) addFrame(f Frame) {
	atomic.AddUint64(&s.FramesCompleted, 1)
	atomic.AddUint64(&s.BytesEmitted, uint64(len(f.Bytes)))
	for _, tok := range f.Tokens {
		switch tok.Kind {
		case ByteParityFail:
			atomic.AddUint64(&s.ParityFailures, 1)
		case ByteFraming:
			atomic.AddUint64(&s.TruncatedFrames, 1)
		}
	}
}

func (s *Stats) addIllegalSequence() {
	atomic.AddUint64(&s.IllegalSequences, 1)
}

func (s *Stats) addMismatchedHalves() {
	atomic.AddUint64(&s.MismatchedHalves, 1)
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() Stats {
	return Stats{
		FramesCompleted:  atomic.LoadUint64(&s.FramesCompleted),
		BytesEmitted:     atomic.LoadUint64(&s.BytesEmitted),
		ParityFailures:   atomic.LoadUint64(&s.ParityFailures),
		TruncatedFrames:  atomic.LoadUint64(&s.TruncatedFrames),
		IllegalSequences: atomic.LoadUint64(&s.IllegalSequences),
		MismatchedHalves: atomic.LoadUint64(&s.MismatchedHalves),
	}
}
