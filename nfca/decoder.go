package nfca

import (
	"fmt"
	"log"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures optional Decoder behavior. Kept to a plain functional
// wrapper around the two genuinely optional knobs (debug tracing, metrics
// registration) rather than a general options framework: the teacher's
// own decoders (MorseConfig, FSKDecoder) configure themselves from a
// single plain struct passed to the constructor, never functional
// options, so Option here stays minimal and is not extended beyond what
// these two concerns need.
type Option func(*Decoder)

// WithDebug enables logging of each completed frame's trace line through
// log.Printf (spec section 4.7). No per-sample or per-half-bit lines are
// logged. It is never required for correct decoding.
func WithDebug(debug bool) Option {
	return func(d *Decoder) { d.debug = debug }
}

// WithMetrics registers a Metrics instance for this Decoder on reg,
// labeling it name. Use a distinct registerer (or name) per Decoder
// instance to avoid duplicate-registration panics when running more than
// one decoder in the same process (spec section 5).
func WithMetrics(reg prometheus.Registerer, name string) Option {
	return func(d *Decoder) {
		d.name = name
		d.metrics = NewMetrics(reg, name)
	}
}

// Decoder recovers ISO/IEC 14443 Type A tag-to-reader frames from a
// stream of binary-valued samples. It is not safe for concurrent use on
// the same instance (spec section 5); distinct instances are
// independent.
type Decoder struct {
	sampleRateHz float64
	variant      Variant
	name         string
	debug        bool

	gap *gapDecoder
	win *windowDecoder

	frame                 bitBuffer
	lastKnownNoParityMode bool

	outQueue []byte
	outOff   int

	Stats   Stats
	metrics *Metrics
}

// New constructs a Decoder for the given variant, precomputing all
// thresholds from sampleRateHz. It rejects non-positive or non-finite
// rates (spec section 6).
func New(sampleRateHz float64, variant Variant, opts ...Option) (*Decoder, error) {
	if err := validateSampleRate(sampleRateHz); err != nil {
		return nil, err
	}

	sps := sampleRateHz / 1_000_000
	d := &Decoder{sampleRateHz: sampleRateHz, variant: variant, name: "nfca"}

	switch variant {
	case VariantGap:
		d.gap = newGapDecoder(newGapThresholds(sps))
	case VariantWindow:
		d.win = newWindowDecoder(newWindowThresholds(sps))
	default:
		return nil, fmt.Errorf("nfca: unknown variant %d", variant)
	}

	for _, opt := range opts {
		opt(d)
	}

	if d.win != nil {
		d.win.stats = &d.Stats
		d.win.metrics = d.metrics
	}
	return d, nil
}

// RequiredInputs forecasts how many input samples are needed to produce
// nOutputBytes decoded bytes (spec section 6).
func (d *Decoder) RequiredInputs(nOutputBytes int) int {
	sps := d.sampleRateHz / 1_000_000
	return int(float64(nOutputBytes) * 8 * sps)
}

// Process feeds samples through the decoder, appends any completed
// frames' bytes to the front of the caller's out buffer, and returns how
// many bytes were written there. Values in samples outside {0,1} are
// compared against zero, bit-exact with the original implementation
// (spec section 6). Completed frames produced during this call are also
// returned directly, in addition to the required byte-count contract.
//
// Process is not safe for concurrent use on the same Decoder.
func (d *Decoder) Process(samples []byte, out []byte) (int, []Frame) {
	var frames []Frame

	switch d.variant {
	case VariantGap:
		frames = d.processGap(samples)
	case VariantWindow:
		frames = d.processWindow(samples)
	}

	for _, f := range frames {
		d.outQueue = append(d.outQueue, f.Bytes...)
	}

	n := copy(out, d.outQueue[d.outOff:])
	d.outOff += n
	if d.outOff > 0 && d.outOff*2 > len(d.outQueue) {
		d.outQueue = append(d.outQueue[:0], d.outQueue[d.outOff:]...)
		d.outOff = 0
	}
	return n, frames
}

func (d *Decoder) processGap(samples []byte) []Frame {
	var frames []Frame
	for _, s := range samples {
		v := byte(0)
		if s != 0 {
			v = 1
		}
		if !d.gap.step(v, &d.frame) {
			continue
		}
		if f, ok := d.drainFrame(); ok {
			frames = append(frames, f)
		}
		d.gap.reset()
	}
	return frames
}

func (d *Decoder) processWindow(samples []byte) []Frame {
	normalized := make([]byte, len(samples))
	for i, s := range samples {
		if s != 0 {
			normalized[i] = 1
		}
	}
	d.win.feed(normalized)

	var frames []Frame
	for d.win.run(&d.frame) {
		// A false ok means the window decoder itself discarded the
		// frame (tmp[0]==tmp[1] mismatch) and already recorded it in
		// Stats/Metrics.
		if f, ok := d.drainFrame(); ok {
			frames = append(frames, f)
		}
		d.win.reset()
	}
	return frames
}

// drainFrame assembles whatever bits have accumulated in d.frame, clears
// it, and reports whether a non-empty frame was produced.
func (d *Decoder) drainFrame() (Frame, bool) {
	if d.frame.decodedBitNum == 0 {
		return Frame{}, false
	}
	f := assembleFrame(d.frame.bits[:d.frame.decodedBitNum], &d.lastKnownNoParityMode)
	d.frame.clear()
	d.Stats.addFrame(f)
	d.metrics.observeFrame(f)
	if d.debug {
		log.Printf("[nfca] %s", strings.TrimSuffix(f.Trace, "\n"))
	}
	return f, true
}
