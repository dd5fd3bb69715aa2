package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestFastSinPhase_MatchesMathSin(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		phase := rapid.Float32Range(0, 0.999999).Draw(t, "phase")
		want := float32(math.Sin(float64(phase) * 2 * math.Pi))
		got := fastSinPhase(phase)
		assert.InDelta(t, want, got, 1e-3)
	})
}

func TestFastSinPhase_WrapsOutOfRangeInput(t *testing.T) {
	assert.InDelta(t, fastSinPhase(0.25), fastSinPhase(1.25), 1e-3)
	assert.InDelta(t, fastSinPhase(0.25), fastSinPhase(-0.75), 1e-3)
}

func TestMetersToSamples_NeverBelowOne(t *testing.T) {
	assert.Equal(t, uint32(1), metersToSamples(0, 44100))
	assert.Equal(t, uint32(1), metersToSamples(0.0000001, 44100))
}

func TestMetersToSamples_ScalesWithSampleRate(t *testing.T) {
	low := metersToSamples(1.0, 22050)
	high := metersToSamples(1.0, 44100)
	assert.Greater(t, high, low)
}

func TestValveWindows_ZeroOutsideOpenInterval(t *testing.T) {
	assert.Equal(t, float32(0), intakeValve(0.5))
	assert.Equal(t, float32(0), exhaustValve(0.1))
	assert.Equal(t, float32(0), fuelIgnition(0.1, 0.3))
}

func TestFmod1_AlwaysInUnitRange(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Float32Range(-100, 100).Draw(t, "v")
		r := fmod1(v)
		assert.GreaterOrEqual(t, r, float32(0))
		assert.Less(t, r, float32(1))
	})
}
