// engine_core.go - crankshaft, cylinder bank, muffler, and the per-sample gen() path

package main

// EngineCore owns the cylinder bank, muffler, noise sources, and filters
// that together form one engine's physical model. A single instance is
// meant to be driven by one audio thread; see AudioGenerator and Recorder
// for the two callers.
type EngineCore struct {
	cylinders []*Cylinder
	muffler   *Muffler

	intakeNoise   *Noise
	intakeNoiseLP *LowPassFilter

	vibrationFilter *LowPassFilter

	crankshaftNoise   *Noise
	crankshaftLP      *LowPassFilter
	crankshaftFluct   float32
	intakeNoiseFactor float32
	intakeValveShift  float32
	exhaustValveShift float32

	crankshaftPos float32
	noisePos      float32

	exhaustCollector float32
	intakeCollector  float32
}

// NewEngineCore returns a freshly zeroed core. It is populated by
// EngineConfig.buildEngine, which owns allocation of cylinders, muffler, and
// filters.
func NewEngineCore() *EngineCore {
	return &EngineCore{
		intakeNoise:     NewNoise(),
		crankshaftNoise: NewNoise(),
	}
}

// Clear resets crank/noise phase and silences every waveguide and filter,
// without discarding the built topology.
func (e *EngineCore) Clear() {
	e.crankshaftPos = 0
	e.noisePos = 0
	for _, c := range e.cylinders {
		c.Clear()
	}
	e.intakeNoiseLP.Clear()
	e.vibrationFilter.Clear()
	e.muffler.Clear()
	e.crankshaftLP.Clear()
}

// Gen advances the simulation by exactly one sample and returns the three
// output taps plus whether any waveguide engaged its soft clamp this sample.
// Callers must have already advanced crankshaftPos/noisePos for this tick
// (see EngineConfig.advancePhase) before calling Gen.
func (e *EngineCore) Gen() (intakeCh, vibrationCh, exhaustCh float32, dampened bool) {
	intakeNoiseSample := e.intakeNoiseLP.Filter(e.intakeNoise.NextF32()) * e.intakeNoiseFactor

	numCyl := float32(len(e.cylinders))
	lastExhaust := e.exhaustCollector / numCyl
	e.exhaustCollector = 0
	e.intakeCollector = 0

	jitter := e.crankshaftLP.Filter(e.crankshaftNoise.NextF32())

	var vibration float32
	var cylinderDampened bool

	for _, cyl := range e.cylinders {
		in, ex, vib, damp := cyl.Pop(
			e.crankshaftPos+e.crankshaftFluct*jitter,
			lastExhaust,
			e.intakeValveShift,
			e.exhaustValveShift,
		)
		e.intakeCollector += in
		e.exhaustCollector += ex
		vibration += vib
		cylinderDampened = cylinderDampened || damp
	}

	straightC1, straightC0, straightDampened := e.muffler.straightPipe.Pop()

	var mufC1, mufC0 float32
	var mufflerDampened bool
	for _, cavity := range e.muffler.cavities {
		c1, c0, d := cavity.Pop()
		mufC1 += c1
		mufC0 += c0
		mufflerDampened = mufflerDampened || d
	}

	for _, cyl := range e.cylinders {
		noiseGate := intakeValve(fmod1(e.crankshaftPos + cyl.crankOffset))
		cyl.Push(e.intakeCollector/numCyl + intakeNoiseSample*noiseGate)
	}

	e.muffler.straightPipe.Push(e.exhaustCollector, mufC1)
	e.exhaustCollector += straightC1

	numMuf := float32(len(e.muffler.cavities))
	for _, cavity := range e.muffler.cavities {
		cavity.Push(straightC0/numMuf, 0)
	}

	vibration = e.vibrationFilter.Filter(vibration)

	return e.intakeCollector, vibration, mufC0, straightDampened || cylinderDampened || mufflerDampened
}
