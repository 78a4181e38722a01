// Package nfca decodes the tag-to-reader (PICC->PCD) side of an ISO/IEC
// 14443 Type A link from a stream of binary-valued samples produced by an
// upstream envelope/threshold detector.
//
// Two front ends share a common frame assembler: a gap-width state machine
// (Variant A) that measures the widths of runs of ones and zeros directly,
// and a window-sum state machine (Variant B) that slides a one-bit-period
// window across the samples and thresholds its sum. Both recover the tag's
// modified-subcarrier bit stream, pack it into bytes, check the protocol's
// even parity, and produce a human-readable trace line per frame.
package nfca
