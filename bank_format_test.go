package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestParseBankData_TooSmall(t *testing.T) {
	b := ParseBankData([]byte{0x55, 0x55, 0xAA})
	assert.True(t, b.Cleared)
}

func TestParseBankData_InvalidIdentifier(t *testing.T) {
	data := make([]byte, 20)
	data[0], data[1] = 0x00, 0x00
	b := ParseBankData(data)
	assert.True(t, b.Cleared)
}

func TestParseBankData_InvalidVersion(t *testing.T) {
	data := make([]byte, 20)
	data[0], data[1] = 0x55, 0x55
	data[2], data[3] = 0xAA, 0xAA
	data[4] = 0x01 // version = 1, not the only supported version 0
	b := ParseBankData(data)
	assert.True(t, b.Cleared)
}

// TestEncodeBank_MagicBytes matches scenario 3's documented blob prefix.
func TestEncodeBank_MagicBytes(t *testing.T) {
	blob := EncodeBank(nil, 0, nil)
	require.GreaterOrEqual(t, len(blob), 8)
	assert.Equal(t, []byte{0x55, 0x55, 0xAA, 0xAA, 0x00, 0x00, 0x00, 0x00}, blob[:8])
}

// TestBank_RoundTrip matches the bank round-trip invariant: encoding then
// parsing reproduces identical descriptors and PCM16 bytes.
func TestBank_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		count := rapid.IntRange(0, 5).Draw(t, "count")
		descriptors := make([]BankDescriptor, count)
		cum := uint32(0)
		for i := range descriptors {
			length := rapid.Uint32Range(1, 200).Draw(t, "len")
			descriptors[i] = BankDescriptor{
				RPM:        rapid.Float32Range(500, 8000).Draw(t, "rpm"),
				StartFrame: cum,
				EndFrame:   cum + length,
			}
			cum += length
		}
		pcm := make([]int16, cum*2)
		for i := range pcm {
			pcm[i] = int16(rapid.IntRange(-32768, 32767).Draw(t, "pcm"))
		}
		padding := rapid.Uint32Range(0, 64).Draw(t, "padding")

		blob := EncodeBank(descriptors, padding, pcm)
		parsed := ParseBankData(blob)

		assert.False(t, parsed.Cleared)
		assert.Equal(t, descriptors, parsed.Descriptors)
		assert.Equal(t, padding, parsed.PaddingFrames)
		assert.Equal(t, pcm, parsed.PCM)
	})
}
