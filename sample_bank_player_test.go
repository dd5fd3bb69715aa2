package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tone builds a single-descriptor bank holding one cycle of a sine wave
// spread across frames frames, tagged as recorded at recordedRPM.
func tone(recordedRPM float32, frames uint32) *Bank {
	pcm := make([]int16, frames*2)
	for i := uint32(0); i < frames; i++ {
		v := fastSinPhase(float32(i) / float32(frames))
		s := clampPCM16(v)
		pcm[i*2] = s
		pcm[i*2+1] = s
	}
	return &Bank{
		Descriptors: []BankDescriptor{{RPM: recordedRPM, StartFrame: 0, EndFrame: frames}},
		SampleRate:  22050,
		PCM:         pcm,
	}
}

func TestChannel_ClearedBankStaysSilent(t *testing.T) {
	bank := &Bank{Cleared: true}
	ch := NewChannel(bank)
	ch.Advance(1000, 0.01)
	assert.Equal(t, float32(0), ch.GetSample(1000))
}

func TestChannel_SinglePointBankLoopsWithoutPanicking(t *testing.T) {
	bank := tone(1000, 200)
	ch := NewChannel(bank)
	for i := 0; i < 5000; i++ {
		ch.Advance(1500, 1.0/22050)
		v := ch.GetSample(1500)
		assert.GreaterOrEqual(t, v, float32(-1.01))
		assert.LessOrEqual(t, v, float32(1.01))
	}
}

// TestChannel_GetSample_BlendsTowardNearestDescriptor matches scenario 5's
// pitch-shift intent: playback at the lower descriptor's own RPM should
// weight that descriptor fully (blend factor 0), and at the upper
// descriptor's RPM fully the other way (blend factor 1).
func TestChannel_GetSample_BlendsTowardNearestDescriptor(t *testing.T) {
	low := BankDescriptor{RPM: 1000, StartFrame: 0, EndFrame: 100}
	high := BankDescriptor{RPM: 2000, StartFrame: 100, EndFrame: 200}

	pcm := make([]int16, 200*2)
	for i := 0; i < 100; i++ {
		pcm[i*2] = 1000
		pcm[i*2+1] = 1000
	}
	for i := 100; i < 200; i++ {
		pcm[i*2] = -1000
		pcm[i*2+1] = -1000
	}

	bank := &Bank{Descriptors: []BankDescriptor{low, high}, SampleRate: 22050, PCM: pcm}
	ch := NewChannel(bank)

	ch.phases[0] = 0.5
	ch.phases[1] = 0.5

	atLow := ch.GetSample(1000)
	atHigh := ch.GetSample(2000)
	atMid := ch.GetSample(1500)

	assert.InDelta(t, pcm16ToFloat(1000), float64(atLow), 1e-4)
	assert.InDelta(t, pcm16ToFloat(-1000), float64(atHigh), 1e-4)
	assert.InDelta(t, (float64(atLow)+float64(atHigh))/2, float64(atMid), 1e-4)
}

func TestSlew_SnapsWhenRateNegative(t *testing.T) {
	assert.Equal(t, float32(5), slew(1, 5, -1, 1))
}

func TestSlew_CapsStepAtRateTimesDt(t *testing.T) {
	v := slew(0, 10, 2, 1) // max step = 2
	assert.Equal(t, float32(2), v)
}

func TestSampleBankPlayer_ProcessStaysFinite(t *testing.T) {
	crank := tone(1000, 220)
	ign := tone(1000, 220)
	exh := tone(1000, 220)
	player := NewSampleBankPlayer(crank, ign, exh)
	player.RPM = 3000
	player.RPMBlend = 500
	player.VolumeBlend = 2

	require.NotNil(t, player)
	for i := 0; i < 22050; i++ {
		v := player.Process(1.0 / 22050)
		assert.GreaterOrEqual(t, v, float32(-4))
		assert.LessOrEqual(t, v, float32(4))
	}
}
