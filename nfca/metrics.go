package nfca

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for one Decoder instance,
// grounded on the root prometheus.go's PrometheusMetrics (promauto-built
// GaugeVec/CounterVec fields constructed once at startup). Unlike that
// file's package-wide metrics object, Metrics is built per Decoder and
// registered on a caller-supplied prometheus.Registerer so that distinct
// decoder instances (spec section 5: "distinct instances are
// independent") don't collide registering the same metric name twice.
type Metrics struct {
	framesCompleted  prometheus.Counter
	bytesEmitted     prometheus.Counter
	parityFailures   prometheus.Counter
	truncatedFrames  prometheus.Counter
	illegalSequences prometheus.Counter
	mismatchedHalves prometheus.Counter
	// state is registered with the other collectors, but neither decoder
	// variant calls setState, so it carries no samples.
	state *prometheus.GaugeVec
}

// NewMetrics builds and registers a Metrics for one decoder instance,
// labeling its state gauge with name so multiple instances sharing a
// registry are distinguishable.
func NewMetrics(reg prometheus.Registerer, name string) *Metrics {
	factory := promauto.With(reg)
	constLabels := prometheus.Labels{"decoder": name}

	return &Metrics{
		framesCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_frames_completed_total",
			Help:        "Tag frames fully assembled.",
			ConstLabels: constLabels,
		}),
		bytesEmitted: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_bytes_emitted_total",
			Help:        "Decoded bytes produced.",
			ConstLabels: constLabels,
		}),
		parityFailures: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_parity_failures_total",
			Help:        "Bytes whose parity bit did not match.",
			ConstLabels: constLabels,
		}),
		truncatedFrames: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_truncated_frames_total",
			Help:        "Frames ending with a partial trailing byte.",
			ConstLabels: constLabels,
		}),
		illegalSequences: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_illegal_half_bit_sequences_total",
			Help:        "Variant B frames discarded on a 1,1,1 half-bit run.",
			ConstLabels: constLabels,
		}),
		mismatchedHalves: factory.NewCounter(prometheus.CounterOpts{
			Name:        "nfca_mismatched_half_bits_total",
			Help:        "Variant B frames discarded on tmp[0]==tmp[1].",
			ConstLabels: constLabels,
		}),
		state: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "nfca_decoder_state",
			Help:        "Decoder state marker (1 for each state label that has been set).",
			ConstLabels: constLabels,
		}, []string{"state"}),
	}
}

func (m *Metrics) observeFrame(f Frame) {
	if m == nil {
		return
	}
	m.framesCompleted.Inc()
	m.bytesEmitted.Add(float64(len(f.Bytes)))
	for _, tok := range f.Tokens {
		switch tok.Kind {
		case ByteParityFail:
			m.parityFailures.Inc()
		case ByteFraming:
			m.truncatedFrames.Inc()
		}
	}
}

func (m *Metrics) observeIllegalSequence() {
	if m == nil {
		return
	}
	m.illegalSequences.Inc()
}

func (m *Metrics) observeMismatchedHalves() {
	if m == nil {
		return
	}
	m.mismatchedHalves.Inc()
}

func (m *Metrics) setState(name, state string) {
	if m == nil {
		return
	}
	m.state.WithLabelValues(state).Set(1)
}
