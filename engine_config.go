// engine_config.go - parametric description, dirty-flagged rebuild, and validation

package main

import (
	"fmt"
)

// CylinderSpec describes one cylinder's layout within an EngineConfig.
type CylinderSpec struct {
	CrankOffset        float32
	PistonMotionFactor float32
	IgnitionFactor     float32
	IgnitionTime       float32
	IntakePipeLength   float32
	ExhaustPipeLength  float32
	ExtractorPipeLength float32
}

// MufflerCavitySpec describes one cavity in the muffler bank.
type MufflerCavitySpec struct {
	CavityLength float32
}

// exhaustWaveguideAlpha and exhaustWaveguideBeta are the fixed end
// reflections of every cylinder's exhaust waveguide. The upstream model
// hardcodes these rather than exposing them as configuration, and no
// parameter in the configuration surface names them either (the
// cylinder_exhaust_{opened,closed}_refl pair governs the *valve*
// reflection, a different quantity) — resolved here by keeping them fixed
// constants rather than inventing a configuration knob the source doesn't
// have.
const (
	exhaustWaveguideAlpha = 0.71
	exhaustWaveguideBeta  = 0.06
)

// EngineConfig is the parametric, host-facing description of an engine
// layout. Setters (and MarkDirty) mark the config dirty; the next
// IsEngineValid, ClearBuffer or SkipFrames call then materialises (or
// updates in place) the backing EngineCore.
type EngineConfig struct {
	Cylinders       []CylinderSpec
	MufflerCavities []MufflerCavitySpec

	RPM       float32
	SampleRate uint32

	Volume            float32
	IntakeVolume      float32
	ExhaustVolume     float32
	VibrationsVolume  float32

	DCFilterFrequency float32

	IntakeNoiseFactor          float32
	IntakeNoiseFilterFrequency float32

	IntakeValveShift  float32
	ExhaustValveShift float32

	CrankshaftFluctuation                 float32
	CrankshaftFluctuationFilterFrequency float32

	VibrationsFilterFrequency float32

	StraightPipeLength             float32
	StraightPipeExtractorSideRefl  float32
	StraightPipeMufflerSideRefl    float32
	OutputSideRefl                 float32

	CylinderIntakeOpenedRefl   float32
	CylinderIntakeClosedRefl   float32
	CylinderExhaustOpenedRefl  float32
	CylinderExhaustClosedRefl  float32
	CylinderIntakeOpenEndRefl  float32
	CylinderExtractorOpenEndRefl float32

	dirty  bool
	valid  bool
	engine *EngineCore
	dcLP   *LowPassFilter

	dampened bool
}

// DefaultEngineConfig returns a config populated with the reference
// implementation's default values, no cylinders, and no muffler cavities.
// Callers typically append cylinders/cavities before the first build.
func DefaultEngineConfig() *EngineConfig {
	c := &EngineConfig{
		RPM:        1000,
		SampleRate: 22050,

		Volume:           0.5,
		IntakeVolume:     0.5,
		ExhaustVolume:    0.25,
		VibrationsVolume: 0.1,

		DCFilterFrequency: 0.5,

		IntakeNoiseFactor:          0.2,
		IntakeNoiseFilterFrequency: 10900,

		IntakeValveShift:  0.04,
		ExhaustValveShift: 0,

		CrankshaftFluctuation:                0.3,
		CrankshaftFluctuationFilterFrequency: 57,

		VibrationsFilterFrequency: 92,

		StraightPipeLength:            2.0,
		StraightPipeExtractorSideRefl: 0.06,
		StraightPipeMufflerSideRefl:   0,
		OutputSideRefl:                -0.14,

		CylinderIntakeOpenedRefl:     0,
		CylinderIntakeClosedRefl:     1.0,
		CylinderExhaustOpenedRefl:    0,
		CylinderExhaustClosedRefl:    0.7,
		CylinderIntakeOpenEndRefl:    -0.75,
		CylinderExtractorOpenEndRefl: 0,

		dirty: true,
	}
	return c
}

// DefaultCylinderSpec returns one cylinder's reference-implementation
// defaults, at crank offset 0.
func DefaultCylinderSpec() CylinderSpec {
	return CylinderSpec{
		PistonMotionFactor:  1.0,
		IgnitionFactor:      1.0,
		IgnitionTime:        0.3,
		IntakePipeLength:    0.08,
		ExhaustPipeLength:   0.1,
		ExtractorPipeLength: 0.1,
	}
}

// DefaultMufflerCavitySpec returns one cavity's reference-implementation default.
func DefaultMufflerCavitySpec() MufflerCavitySpec {
	return MufflerCavitySpec{CavityLength: 0.04}
}

// MarkDirty forces a rebuild on the next IsEngineValid/ClearBuffer/SkipFrames call. Direct
// field mutation (as opposed to the setter helpers below) requires calling
// this explicitly.
func (c *EngineConfig) MarkDirty() {
	c.dirty = true
}

// SetRPM updates the crankshaft speed target and marks the config dirty.
// RPM is read on every sample, so the rebuild this triggers keeps every
// waveguide's length and contents.
func (c *EngineConfig) SetRPM(rpm float32) {
	c.RPM = rpm
	c.dirty = true
}

// Clone returns a deep-enough copy for baking: the parametric description is
// copied, but no backing EngineCore is shared, so the live config can keep
// running unaffected while the clone's engine is built and swept. Mirrors
// the reference recorder's practice of duplicating the config before baking.
func (c *EngineConfig) Clone() *EngineConfig {
	clone := *c
	clone.Cylinders = append([]CylinderSpec(nil), c.Cylinders...)
	clone.MufflerCavities = append([]MufflerCavitySpec(nil), c.MufflerCavities...)
	clone.engine = nil
	clone.dcLP = nil
	clone.dirty = true
	clone.valid = false
	return &clone
}

// Validate reports a ConfigInvalid error for the error kinds §7 of the
// engine spec defines: missing cylinders or a non-positive sample rate.
func (c *EngineConfig) Validate() error {
	if len(c.Cylinders) == 0 {
		return &EngineError{Kind: ConfigInvalid, Msg: "engine has no cylinders"}
	}
	if c.SampleRate == 0 {
		return &EngineError{Kind: ConfigInvalid, Msg: "sample rate must be positive"}
	}
	return nil
}

// IsEngineValid rebuilds the engine if dirty and reports whether it is then
// usable. It never panics on an invalid config; it simply leaves valid false.
func (c *EngineConfig) IsEngineValid() bool {
	if c.dirty {
		c.buildEngine()
	}
	return c.valid
}

// buildEngine (re)materialises the EngineCore, its filters, noise sources,
// cylinder bank, and muffler from the current parametric description,
// preserving existing waveguide buffers (and their warm state) wherever the
// corresponding element survives the rebuild. It is called from
// IsEngineValid, ClearBuffer and SkipFrames when the config is dirty; since
// AudioGenerator.Fill calls IsEngineValid, a dirty config is rebuilt (and
// its buffers reallocated) on the audio path at the start of a fill.
func (c *EngineConfig) buildEngine() {
	c.valid = false

	if err := c.Validate(); err != nil {
		c.dirty = false
		return
	}

	if c.engine == nil {
		c.engine = NewEngineCore()
	}
	engine := c.engine

	if c.dcLP == nil {
		c.dcLP = NewLowPassFilter(c.DCFilterFrequency, c.SampleRate)
	} else {
		c.dcLP.Modify(c.DCFilterFrequency, c.SampleRate)
	}

	engine.intakeNoiseFactor = c.IntakeNoiseFactor
	engine.intakeValveShift = c.IntakeValveShift
	engine.exhaustValveShift = c.ExhaustValveShift
	engine.crankshaftFluct = c.CrankshaftFluctuation

	if engine.intakeNoise == nil {
		engine.intakeNoise = NewNoise()
	}
	if engine.crankshaftNoise == nil {
		engine.crankshaftNoise = NewNoise()
	}

	if engine.intakeNoiseLP == nil {
		engine.intakeNoiseLP = NewLowPassFilter(c.IntakeNoiseFilterFrequency, c.SampleRate)
	} else {
		engine.intakeNoiseLP.Modify(c.IntakeNoiseFilterFrequency, c.SampleRate)
	}

	if engine.vibrationFilter == nil {
		engine.vibrationFilter = NewLowPassFilter(c.VibrationsFilterFrequency, c.SampleRate)
	} else {
		engine.vibrationFilter.Modify(c.VibrationsFilterFrequency, c.SampleRate)
	}

	if engine.crankshaftLP == nil {
		engine.crankshaftLP = NewLowPassFilter(c.CrankshaftFluctuationFilterFrequency, c.SampleRate)
	} else {
		engine.crankshaftLP.Modify(c.CrankshaftFluctuationFilterFrequency, c.SampleRate)
	}

	c.buildCylinders(engine)
	c.buildMuffler(engine)

	c.dirty = false
	c.valid = true
}

func (c *EngineConfig) buildCylinders(engine *EngineCore) {
	prevCount := len(engine.cylinders)
	count := len(c.Cylinders)

	if count < prevCount {
		engine.cylinders = engine.cylinders[:count]
	}
	for len(engine.cylinders) < count {
		engine.cylinders = append(engine.cylinders, nil)
	}

	for i, spec := range c.Cylinders {
		cyl := engine.cylinders[i]
		if cyl == nil {
			cyl = NewCylinder()
		}

		cyl.pistonMotionFactor = spec.PistonMotionFactor
		cyl.ignitionFactor = spec.IgnitionFactor
		cyl.crankOffset = spec.CrankOffset
		cyl.ignitionTime = spec.IgnitionTime
		cyl.intakeOpenRefl = c.CylinderIntakeOpenedRefl
		cyl.intakeClosedRefl = c.CylinderIntakeClosedRefl
		cyl.exhaustOpenRefl = c.CylinderExhaustOpenedRefl
		cyl.exhaustClosedRefl = c.CylinderExhaustClosedRefl

		intakeLen := metersToSamples(spec.IntakePipeLength, c.SampleRate)
		if cyl.intakeWaveguide == nil {
			cyl.intakeWaveguide = NewWaveGuide(intakeLen, 1.0, c.CylinderIntakeOpenEndRefl, c.SampleRate)
		} else {
			cyl.intakeWaveguide.Modify(intakeLen, 1.0, c.CylinderIntakeOpenEndRefl, c.SampleRate)
		}

		exhaustLen := metersToSamples(spec.ExhaustPipeLength, c.SampleRate)
		if cyl.exhaustWaveguide == nil {
			cyl.exhaustWaveguide = NewWaveGuide(exhaustLen, exhaustWaveguideAlpha, exhaustWaveguideBeta, c.SampleRate)
		} else {
			cyl.exhaustWaveguide.Modify(exhaustLen, exhaustWaveguideAlpha, exhaustWaveguideBeta, c.SampleRate)
		}

		extractorLen := metersToSamples(spec.ExtractorPipeLength, c.SampleRate)
		if cyl.extractorWaveguide == nil {
			cyl.extractorWaveguide = NewWaveGuide(extractorLen, 0, c.CylinderExtractorOpenEndRefl, c.SampleRate)
		} else {
			cyl.extractorWaveguide.Modify(extractorLen, 0, c.CylinderExtractorOpenEndRefl, c.SampleRate)
		}

		engine.cylinders[i] = cyl
	}
}

func (c *EngineConfig) buildMuffler(engine *EngineCore) {
	if engine.muffler == nil {
		engine.muffler = NewMuffler()
	}
	muffler := engine.muffler

	straightLen := metersToSamples(c.StraightPipeLength, c.SampleRate)
	if muffler.straightPipe == nil {
		muffler.straightPipe = NewWaveGuide(straightLen, c.StraightPipeExtractorSideRefl, c.StraightPipeMufflerSideRefl, c.SampleRate)
	} else {
		muffler.straightPipe.Modify(straightLen, c.StraightPipeExtractorSideRefl, c.StraightPipeMufflerSideRefl, c.SampleRate)
	}

	prevCount := len(muffler.cavities)
	count := len(c.MufflerCavities)
	if count < prevCount {
		muffler.cavities = muffler.cavities[:count]
	}
	for len(muffler.cavities) < count {
		muffler.cavities = append(muffler.cavities, nil)
	}

	for i, spec := range c.MufflerCavities {
		cavityLen := metersToSamples(spec.CavityLength, c.SampleRate)
		cav := muffler.cavities[i]
		if cav == nil {
			cav = NewWaveGuide(cavityLen, 0, c.OutputSideRefl, c.SampleRate)
		} else {
			cav.Modify(cavityLen, 0, c.OutputSideRefl, c.SampleRate)
		}
		muffler.cavities[i] = cav
	}
}

// phaseIncrement returns the per-sample crankshaft phase advance for the
// configured RPM and sample rate. The factor of 120 (= 60*2) accounts for a
// four-stroke cycle spanning two crank revolutions.
func (c *EngineConfig) phaseIncrement() float32 {
	return c.RPM / (float32(c.SampleRate) * 120.0)
}

// advancePhase moves the crankshaft and noise phase forward by one sample.
func (c *EngineConfig) advancePhase() {
	inc := c.phaseIncrement()
	c.engine.crankshaftPos = fmod1(c.engine.crankshaftPos + inc)
	c.engine.noisePos = fmod1(c.engine.noisePos + inc/500.0)
}

// Gen advances crank phase and runs one EngineCore.Gen tick, returning the
// same four values. It assumes IsEngineValid() has already been checked by
// the caller (AudioGenerator/Recorder); calling it on an invalid config is a
// programmer error the callers in this package never commit.
func (c *EngineConfig) Gen() (intake, vibration, exhaust float32, dampened bool) {
	c.advancePhase()
	intake, vibration, exhaust, dampened = c.engine.Gen()
	c.dampened = dampened
	return
}

// ClearBuffer rebuilds if dirty, then resets the engine and DC filter to silence.
func (c *EngineConfig) ClearBuffer() error {
	if c.dirty {
		c.buildEngine()
	}
	if !c.valid {
		return &EngineError{Kind: ConfigInvalid, Msg: "engine is not valid"}
	}
	c.engine.Clear()
	c.dcLP.Clear()
	return nil
}

// SkipFrames advances the engine silently, without writing output; used by
// Recorder to let the waveguides settle (preheat) before recording starts.
func (c *EngineConfig) SkipFrames(n int) error {
	if c.dirty {
		c.buildEngine()
	}
	if !c.valid {
		return &EngineError{Kind: ConfigInvalid, Msg: "engine is not valid"}
	}
	for i := 0; i < n; i++ {
		_, _, _, _ = c.Gen()
	}
	return nil
}

// Dampened reports whether the most recent Gen call (directly, or via
// AudioGenerator.Fill) engaged a waveguide's soft clamp.
func (c *EngineConfig) Dampened() bool {
	return c.dampened
}

func (c *EngineConfig) String() string {
	return fmt.Sprintf("EngineConfig{cylinders=%d, cavities=%d, rpm=%.0f, sr=%d}",
		len(c.Cylinders), len(c.MufflerCavities), c.RPM, c.SampleRate)
}
