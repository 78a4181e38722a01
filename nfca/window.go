package nfca

// windowState is the state of the Variant B (window-sum) front end (spec
// section 3).
type windowState int

const (
	windowWaitForStart windowState = iota
	windowPreDecode
	windowDecode
)

// windowDecoder is the Variant B window summer plus bit decoder (spec
// sections 4.3 and 4.4). It retains a pending-sample queue (`buf`, sliced
// at `off`) across Process calls so a start detector or a half-bit
// classification straddling a call boundary resumes exactly where it left
// off, matching the cross-call continuity invariant (spec section 8,
// invariant 4). DESIGN NOTES section 9 calls for a true ring buffer sized
// 14*bit_window; here the queue is trimmed opportunistically instead of
// being a fixed-size ring, since Go's slice append already gives O(1)
// amortized growth and the only hard requirement is bounded re-copying.
type windowDecoder struct {
	th    windowThresholds
	state windowState

	buf []byte
	off int

	tmp []byte // half-bit buffer

	stats   *Stats
	metrics *Metrics
}

func newWindowDecoder(th windowThresholds) *windowDecoder {
	return &windowDecoder{th: th, state: windowWaitForStart}
}

func (w *windowDecoder) reset() {
	w.state = windowWaitForStart
	w.tmp = w.tmp[:0]
}

// feed appends newly arrived samples to the pending queue.
func (w *windowDecoder) feed(samples []byte) {
	w.buf = append(w.buf, samples...)
}

// pending returns the unconsumed tail of the queue.
func (w *windowDecoder) pending() []byte {
	return w.buf[w.off:]
}

// consume advances the queue cursor past n fully-processed samples,
// compacting the backing array once the consumed prefix dominates it so
// memory does not grow without bound while waiting for a start.
func (w *windowDecoder) consume(n int) {
	w.off += n
	if w.off > 4096 && w.off*2 > len(w.buf) {
		w.buf = append(w.buf[:0], w.buf[w.off:]...)
		w.off = 0
	}
}

func sumBytes(s []byte) int {
	total := 0
	for _, b := range s {
		total += int(b)
	}
	return total
}

// run drains as much of the pending queue as the current state allows.
// It returns true each time the DECODE state (spec section 4.4) has run:
// either the frame's bits are now in frame's bit buffer and ready for
// assembly, or the half-bits were malformed and frame was left empty. The
// caller assembles the frame, clears frame, and calls reset before calling
// run again for any data remaining in this Process call.
func (w *windowDecoder) run(frame *bitBuffer) bool {
	for {
		switch w.state {
		case windowWaitForStart:
			if !w.runWaitForStart() {
				return false
			}
		case windowPreDecode:
			if !w.runPreDecode(frame) {
				return false
			}
		case windowDecode:
			w.runDecode(frame)
			return true
		}
	}
}

// runWaitForStart implements the Window Summer contract (spec section
// 4.3). It reports whether it made progress (either declaring a start, in
// which case state advances to PRE_DECODE, or exhausting the available
// data, in which case it returns false to wait for more samples).
func (w *windowDecoder) runWaitForStart() bool {
	th := w.th
	need := 14 * th.bitWindow
	pending := w.pending()
	if len(pending) < need {
		return false
	}

	startSum := sumBytes(pending[:need])
	startSumNext := sumBytes(pending[:th.bitWindow])

	for i := 0; ; i++ {
		if i+need > len(pending) {
			w.consume(i)
			return false
		}
		sample := pending[i]
		if startSum >= 7*th.startMin && startSum <= 7*th.startMax &&
			startSumNext >= th.startMin && startSumNext <= th.startMax &&
			sample == 1 {
			advance := 2*th.bitWindow - 1
			if advance > len(pending)-i {
				advance = len(pending) - i
			}
			w.consume(i + advance)
			w.state = windowPreDecode
			return true
		}

		if i+need >= len(pending) || i+th.bitWindow >= len(pending) {
			w.consume(i)
			return false
		}
		startSum += int(pending[i+need]) - int(pending[i])
		startSumNext += int(pending[i+th.bitWindow]) - int(pending[i])
	}
}

// runPreDecode implements the PRE_DECODE half of the Bit Decoder (spec
// section 4.4).
func (w *windowDecoder) runPreDecode(frame *bitBuffer) bool {
	th := w.th
	pending := w.pending()
	if len(pending) < th.bitWindow {
		return false
	}

	sum := sumBytes(pending[:th.bitWindow])

	var candidate byte
	if sum >= th.meanWindow && sum < th.startMax {
		candidate = 1
	}

	n := len(w.tmp)
	lastTwoOnes := n >= 2 && w.tmp[n-1] == 1 && w.tmp[n-2] == 1
	lastTwoZeros := n >= 2 && w.tmp[n-1] == 0 && w.tmp[n-2] == 0

	switch {
	case candidate == 1 && lastTwoOnes:
		// Illegal "1,1,1" half-bit run: discard the frame in progress.
		w.tmp = w.tmp[:0]
		frame.clear()
		w.state = windowWaitForStart
		if w.stats != nil {
			w.stats.addIllegalSequence()
		}
		w.metrics.observeIllegalSequence()
		skip := th.bitWindow - 1
		if skip > len(pending) {
			skip = len(pending)
		}
		w.consume(skip)
		return true
	case candidate == 0 && lastTwoZeros:
		// Terminator: trim trailing zero half-bits to an even count.
		if len(w.tmp)%2 != 0 {
			w.tmp = w.tmp[:len(w.tmp)-1]
		} else {
			w.tmp = w.tmp[:len(w.tmp)-2]
		}
		w.state = windowDecode
		w.consume(th.bitWindow)
		return true
	default:
		w.tmp = append(w.tmp, candidate)
	}

	advance := th.bitWindow - 1
	// Resync: if the single next sample flips polarity relative to the
	// run just classified, treat that as the new cursor instead of the
	// nominal bit_window-1 advance. This mirrors the original's
	// assignment-inside-comparison loop, which force-breaks after a
	// single iteration (see DESIGN.md Open Question decisions).
	if advance < len(pending) && pending[advance] != pending[0] {
		advance = th.bitWindow
	}
	if advance > len(pending) {
		advance = len(pending)
	}
	w.consume(advance)
	return true
}

// runDecode implements the DECODE half of the Bit Decoder (spec section
// 4.4): pair up half-bits into data bits and hand them to the frame
// assembler's bit buffer.
func (w *windowDecoder) runDecode(frame *bitBuffer) {
	if len(w.tmp) < 2 || w.tmp[0] == w.tmp[1] {
		// Malformed: tmp[0] must differ from tmp[1].
		frame.clear()
		w.tmp = w.tmp[:0]
		w.state = windowWaitForStart
		if w.stats != nil {
			w.stats.addMismatchedHalves()
		}
		w.metrics.observeMismatchedHalves()
		return
	}

	for j := 0; j+1 < len(w.tmp); j += 2 {
		frame.appendBit(w.tmp[j])
	}
	w.tmp = w.tmp[:0]
}
