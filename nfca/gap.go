package nfca

// gapState is the state of the Variant A (gap-width) front end. The state
// name records the most recently decoded bit, per spec section 3: the
// two-symbol-history window drives the gap discriminator in section 4.2.
type gapState int

const (
	gapWaitForStart gapState = iota
	gapLastBitZero
	gapLastBitOne
	gapEndOfFrame
)

// gapDecoder is the Variant A run measurer plus bit decoder (spec sections
// 4.1 and 4.2). Each state is its own transition method rather than a
// single switch with shared mutable counters spread across cases, per
// DESIGN NOTES section 9.
type gapDecoder struct {
	th        gapThresholds
	state     gapState
	countOne  int
	countZero int
}

func newGapDecoder(th gapThresholds) *gapDecoder {
	return &gapDecoder{th: th, state: gapWaitForStart}
}

func (g *gapDecoder) reset() {
	g.state = gapWaitForStart
	g.countOne = 0
	g.countZero = 0
}

// step processes one sample and reports whether END_OF_FRAME was just
// declared. Bits decoded along the way are appended to frame.
func (g *gapDecoder) step(s byte, frame *bitBuffer) bool {
	switch g.state {
	case gapWaitForStart:
		return g.stepWaitForStart(s, frame)
	case gapLastBitZero:
		return g.stepLastBitZero(s, frame)
	case gapLastBitOne:
		return g.stepLastBitOne(s, frame)
	default:
		return false
	}
}

// stepWaitForStart implements the Run Measurer contract (spec section
// 4.1): fold the sample stream into alternating runs and recognise the
// start-of-frame gap.
func (g *gapDecoder) stepWaitForStart(s byte, frame *bitBuffer) bool {
	th := g.th
	if s != 0 {
		if g.countZero > 0 {
			switch {
			case g.countZero >= th.startMin && g.countZero <= th.startMax && g.countOne > th.startMin:
				g.state = gapLastBitOne
				g.countOne = 0
			case g.countZero < th.gapMin:
				// Short zero run: noise. Fold it back into the carrier
				// count rather than treating it as a symbol.
				g.countOne += g.countZero
				g.countZero = 0
			default:
				g.countZero = 0
			}
		}
		g.countOne++
	} else {
		g.countZero++
	}
	return false
}

// stepLastBitZero implements the LAST_BIT_ZERO transitions of spec
// section 4.2. The counter resets below are intentionally asymmetric,
// matching decoded_tag_1.cpp:196-227 exactly: count_one is cleared
// unconditionally across all three in-range sub-cases (long, short, and
// neither), while count_zero is only cleared inside the short-emit
// sub-case and the below-gapMin noise case. Do not "clean up" this
// asymmetry; see DESIGN.md's Open Question decisions.
func (g *gapDecoder) stepLastBitZero(s byte, frame *bitBuffer) bool {
	th := g.th
	if s != 0 {
		if g.countZero > 0 {
			switch {
			case g.countZero > th.endThreshold && frame.decodedBitNum > 0:
				g.state = gapEndOfFrame
				return true
			case g.countZero >= th.gapMin && g.countZero <= th.gapMax:
				switch {
				case g.countOne > th.longThreshold:
					frame.appendBit(1)
					g.state = gapLastBitOne
				case g.countOne > th.shortThreshold:
					frame.appendBit(0)
					// Remains LAST_BIT_ZERO.
					g.countZero = 0
				}
				g.countOne = 0
			case g.countZero < th.gapMin:
				// Fold noise into the one-run.
				g.countOne += g.countZero
				g.countZero = 0
			}
		}
		g.countOne++
	} else {
		if g.countZero > th.endThreshold && frame.decodedBitNum > 0 {
			if g.countOne > th.longThreshold {
				frame.appendBit(1)
			}
			g.state = gapEndOfFrame
			return true
		}
		g.countZero++
	}
	return false
}

// stepLastBitOne mirrors stepLastBitZero with the roles of ones and zeros
// swapped for the width classification, per spec section 4.2
// ("Transitions (LAST_BIT_ONE) are symmetric with the roles of ones and
// zeros swapped"). The end-of-frame check is the one place the original
// does NOT swap roles: decoded_tag_1.cpp:253-256 tests count_zero (not
// count_one) unconditionally, before even looking at the current sample,
// because end-of-frame is detected by a prolonged absence of carrier
// regardless of which bit was last decoded. It also emits no bit on the
// long-threshold path here, unlike stepLastBitZero's s==0 end branch.
func (g *gapDecoder) stepLastBitOne(s byte, frame *bitBuffer) bool {
	th := g.th
	if g.countZero > th.endThreshold && frame.decodedBitNum > 0 {
		g.state = gapEndOfFrame
		return true
	}
	if s == 0 {
		if g.countOne > 0 {
			switch {
			case g.countOne >= th.gapMin && g.countOne <= th.gapMax:
				switch {
				case g.countZero > th.longThreshold:
					frame.appendBit(0)
					g.state = gapLastBitZero
				case g.countZero > th.shortThreshold:
					frame.appendBit(1)
					// Remains LAST_BIT_ONE.
					g.countOne = 0
				}
				g.countZero = 0
			case g.countOne < th.gapMin:
				g.countZero += g.countOne
				g.countOne = 0
			}
		}
		g.countZero++
	} else {
		g.countOne++
	}
	return false
}
