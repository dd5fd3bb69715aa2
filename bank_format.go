// bank_format.go - on-disk multi-RPM sample bank: header, descriptors, PCM16

package main

import (
	"encoding/binary"
	"fmt"
	"math"
)

const (
	bankMagicW0 uint16 = 0x5555
	bankMagicW1 uint16 = 0xAAAA
	bankVersion uint32 = 0
)

// BankDescriptor is one RPM-tagged loop region within a baked channel.
type BankDescriptor struct {
	RPM        float32
	StartFrame uint32
	EndFrame   uint32
}

// Bank is one parsed channel of a baked sample bank: a sequence of
// strictly-increasing-RPM, non-overlapping loop descriptors, a run of
// padding frames following each segment, and interleaved stereo PCM16
// samples. SampleRate is recovered from the caller context (the bank
// format itself carries no sample-rate field; the Recorder always bakes at
// its own EngineConfig's sample rate, and a host is expected to track that
// alongside the file).
type Bank struct {
	Descriptors   []BankDescriptor
	PaddingFrames uint32
	PCM           []int16 // interleaved stereo, len == 2*frameCount
	SampleRate    uint32

	// Cleared is set by ParseBankData when a parse failure (§7
	// BankParseFailure) forces this channel to an empty, silent state
	// instead of propagating an error to a playback caller that wants to
	// keep running with the other channels.
	Cleared bool
}

// FrameCount returns the total number of stereo frames in PCM.
func (b *Bank) FrameCount() int {
	return len(b.PCM) / 2
}

// EncodeBank writes the binary layout described by the baked sample bank
// format: magic, version, PCM byte size, descriptor count, padding-frame
// count, then the descriptors, then interleaved PCM16. The padding-frame
// count is only recorded in the header: no zero frames are written between
// the descriptor table and the PCM, and ParseBankData reads the PCM straight
// after the descriptors. It never fails; callers are expected to have
// validated descriptors before encoding.
func EncodeBank(descriptors []BankDescriptor, paddingFrames uint32, pcm []int16) []byte {
	frameCount := len(pcm) / 2
	dataByteSize := uint32(frameCount * 4)

	headerWords := 10 + len(descriptors)*6
	totalWords := headerWords + len(pcm)
	buf := make([]byte, totalWords*2)

	putU16 := func(off int, v uint16) { binary.LittleEndian.PutUint16(buf[off*2:], v) }
	putU32 := func(off int, v uint32) {
		putU16(off, uint16(v))
		putU16(off+1, uint16(v>>16))
	}

	putU16(0, bankMagicW0)
	putU16(1, bankMagicW1)
	putU32(2, bankVersion)
	putU32(4, dataByteSize)
	putU32(6, uint32(len(descriptors)))
	putU32(8, paddingFrames)

	off := 10
	for _, d := range descriptors {
		bits := math.Float32bits(d.RPM)
		putU32(off, bits)
		putU32(off+2, d.StartFrame)
		putU32(off+4, d.EndFrame)
		off += 6
	}

	for _, s := range pcm {
		putU16(off, uint16(s))
		off++
	}

	return buf
}

// ParseBankData decodes a baked sample-bank blob. Parse failures (§7
// BankParseFailure) never return an error to the caller; instead they
// return a Bank with Cleared set and log a warning, so a multi-channel
// SampleBankPlayer can keep the other channels alive.
func ParseBankData(data []byte) *Bank {
	if len(data) <= 4 {
		logBankParseFailure("unknown", "too small")
		return &Bank{Cleared: true}
	}

	getU16 := func(off int) uint16 { return binary.LittleEndian.Uint16(data[off*2:]) }
	getU32 := func(off int) uint32 {
		return uint32(getU16(off)) | uint32(getU16(off+1))<<16
	}

	if getU16(0) != bankMagicW0 || getU16(1) != bankMagicW1 {
		logBankParseFailure("unknown", "invalid identifier")
		return &Bank{Cleared: true}
	}

	if len(data) < 20 {
		logBankParseFailure("unknown", "truncated header")
		return &Bank{Cleared: true}
	}

	if getU32(2) != bankVersion {
		logBankParseFailure("unknown", "invalid version")
		return &Bank{Cleared: true}
	}

	sampleCount := getU32(6)
	paddingFrames := getU32(8)

	descriptors := make([]BankDescriptor, 0, sampleCount)
	off := 10
	headerBytesNeeded := (10 + int(sampleCount)*6) * 2
	if len(data) < headerBytesNeeded {
		logBankParseFailure("unknown", "truncated descriptor table")
		return &Bank{Cleared: true}
	}

	for i := uint32(0); i < sampleCount; i++ {
		rpmBits := getU32(off)
		start := getU32(off + 2)
		end := getU32(off + 4)
		descriptors = append(descriptors, BankDescriptor{
			RPM:        math.Float32frombits(rpmBits),
			StartFrame: start,
			EndFrame:   end,
		})
		off += 6
	}

	pcmBytesOff := off * 2
	if pcmBytesOff > len(data) {
		logBankParseFailure("unknown", "truncated body")
		return &Bank{Cleared: true}
	}
	pcmBytes := data[pcmBytesOff:]
	if len(pcmBytes)%2 != 0 {
		logBankParseFailure("unknown", "unsupported PCM format")
		return &Bank{Cleared: true}
	}

	pcm := make([]int16, len(pcmBytes)/2)
	for i := range pcm {
		pcm[i] = int16(binary.LittleEndian.Uint16(pcmBytes[i*2:]))
	}

	return &Bank{
		Descriptors:   descriptors,
		PaddingFrames: paddingFrames,
		PCM:           pcm,
	}
}

func (b *Bank) String() string {
	return fmt.Sprintf("Bank{descriptors=%d, frames=%d, cleared=%v}", len(b.Descriptors), b.FrameCount(), b.Cleared)
}
