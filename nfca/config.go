package nfca

import (
	"fmt"
	"math"
)

// Variant selects which bit-recovery front end a Decoder runs.
//
// Modeled on the DecoderMode enum in the teacher's decoder_config.go:
// a small int enum with String/MarshalYAML/UnmarshalYAML and a
// FromString constructor, rather than a bare string field.
type Variant int

const (
	// VariantGap measures the widths of runs of ones and zeros directly.
	VariantGap Variant = iota
	// VariantWindow slides a one-bit-period window across the samples
	// and thresholds its sum.
	VariantWindow
)

func (v Variant) String() string {
	switch v {
	case VariantGap:
		return "gap"
	case VariantWindow:
		return "window"
	default:
		return "unknown"
	}
}

// VariantFromString converts a configuration string to a Variant.
func VariantFromString(s string) (Variant, error) {
	switch s {
	case "gap", "Gap", "GAP", "A", "variant-a":
		return VariantGap, nil
	case "window", "Window", "WINDOW", "B", "variant-b":
		return VariantWindow, nil
	default:
		return 0, fmt.Errorf("nfca: unknown variant %q", s)
	}
}

// MarshalYAML implements yaml.Marshaler for Variant.
func (v Variant) MarshalYAML() (interface{}, error) {
	return v.String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler for Variant.
func (v *Variant) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}

	variant, err := VariantFromString(s)
	if err != nil {
		return err
	}

	*v = variant
	return nil
}

// gapThresholds holds the Variant A width thresholds, in samples,
// derived once from the configured sample rate (spec section 3).
type gapThresholds struct {
	gapWidth       int
	gapMin         int
	gapMax         int
	longWidth      int
	shortWidth     int
	startMin       int
	startMax       int
	longThreshold  int
	shortThreshold int
	endThreshold   int
}

// newGapThresholds derives Variant A's thresholds from the samples-per-
// microsecond rate. All arithmetic is done in floating point and each
// resulting width is truncated to an int exactly once here; the hot loop
// in gap.go never mixes float and int comparisons (DESIGN NOTES section 9).
func newGapThresholds(sps float64) gapThresholds {
	gapWidth := 4 * sps
	longWidth := 8 * sps
	shortWidth := 4 * sps

	return gapThresholds{
		gapWidth:       int(gapWidth),
		gapMin:         int(gapWidth / 2),
		gapMax:         int(gapWidth + gapWidth/2 + 4),
		longWidth:      int(longWidth),
		shortWidth:     int(shortWidth),
		startMin:       int(longWidth),
		startMax:       int(1.5 * longWidth),
		longThreshold:  int(longWidth - longWidth/8),
		shortThreshold: int(shortWidth - shortWidth/8),
		endThreshold:   int(1.5 * longWidth),
	}
}

// windowThresholds holds the Variant B width thresholds, in samples.
type windowThresholds struct {
	bitWindow  int
	meanWindow int
	startMin   int
	startMax   int
}

// newWindowThresholds derives Variant B's thresholds the same way
// newGapThresholds does: float arithmetic, truncated once.
func newWindowThresholds(sps float64) windowThresholds {
	return windowThresholds{
		bitWindow:  int(4.5 * sps),
		meanWindow: int(2.5 * sps),
		startMin:   int(4 * sps),
		startMax:   int(5 * sps),
	}
}

// validateSampleRate rejects non-positive or non-finite rates, per spec
// section 6.
func validateSampleRate(sampleRateHz float64) error {
	if math.IsNaN(sampleRateHz) || math.IsInf(sampleRateHz, 0) {
		return fmt.Errorf("nfca: sample rate must be finite, got %v", sampleRateHz)
	}
	if sampleRateHz <= 0 {
		return fmt.Errorf("nfca: sample rate must be positive, got %v", sampleRateHz)
	}
	return nil
}
