// engine_math.go - crank-phase trig and unit conversions for the DSP core

package main

import "math"

const (
	speedOfSound = 343.0 // m/s
	twoPi        = float32(2 * math.Pi)
	fourPi       = float32(4 * math.Pi)
)

// crankSinLUT holds sin(2*pi*phase) for phase in [0,1), linearly interpolated
// between entries. The excitation and valve functions below are evaluated
// once per cylinder per sample, so a lookup table trades a small amount of
// precision for avoiding a transcendental call on the hot path.
const (
	crankSinLUTSize  = 4096
	crankSinLUTScale = float32(crankSinLUTSize)
)

var crankSinLUT [crankSinLUTSize + 1]float32

func init() {
	for i := 0; i <= crankSinLUTSize; i++ {
		phase := float64(i) / float64(crankSinLUTSize)
		crankSinLUT[i] = float32(math.Sin(phase * 2 * math.Pi))
	}
}

// fastSinPhase returns sin(2*pi*phase) for phase wrapped into [0,1).
//
//go:nosplit
func fastSinPhase(phase float32) float32 {
	phase -= float32(math.Floor(float64(phase)))
	idxF := phase * crankSinLUTScale
	idx := int(idxF)
	if idx < 0 {
		idx = 0
	}
	if idx >= crankSinLUTSize {
		idx = crankSinLUTSize - 1
	}
	frac := idxF - float32(idx)
	return crankSinLUT[idx] + frac*(crankSinLUT[idx+1]-crankSinLUT[idx])
}

func fastCosPhase(phase float32) float32 {
	return fastSinPhase(phase + 0.25)
}

func fmod1(v float32) float32 {
	v -= float32(math.Floor(float64(v)))
	return v
}

// pistonMotion returns the reciprocating-piston excitation term at crank
// position c (normalised phase within a four-stroke cycle, [0,1)).
func pistonMotion(c float32) float32 {
	return fastCosPhase(2 * c)
}

// fuelIgnition returns the combustion excitation pulse, non-zero for a
// window of width timing/2 starting halfway through the cycle.
func fuelIgnition(c, timing float32) float32 {
	if c > 0.5 && c < 0.5+timing*0.5 {
		return fastSinPhase((c - 0.5) / timing)
	}
	return 0
}

// intakeValve returns the intake valve opening window, non-zero in the
// first quarter of the cycle.
func intakeValve(c float32) float32 {
	if c > 0 && c < 0.25 {
		return fastSinPhase(2 * c)
	}
	return 0
}

// exhaustValve returns the exhaust valve opening window, non-zero in the
// last quarter of the cycle.
func exhaustValve(c float32) float32 {
	if c > 0.75 && c < 1.0 {
		return -fastSinPhase(2 * c)
	}
	return 0
}

// secondsToSamples converts a duration to a sample count, never less than 1.
func secondsToSamples(seconds float32, sampleRate uint32) uint32 {
	s := uint32(seconds * float32(sampleRate))
	if s < 1 {
		return 1
	}
	return s
}

// metersToSamples converts a physical pipe length to a delay-line length,
// using the speed of sound and never returning less than 1 sample.
func metersToSamples(meters float32, sampleRate uint32) uint32 {
	return secondsToSamples(meters/speedOfSound, sampleRate)
}
