// layout.go - YAML description of an engine, decoded into an EngineConfig

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CylinderLayout is the YAML-facing mirror of CylinderSpec.
type CylinderLayout struct {
	CrankOffset        float32 `yaml:"crank_offset"`
	PistonMotionFactor float32 `yaml:"piston_motion_factor"`
	IgnitionFactor     float32 `yaml:"ignition_factor"`
	IgnitionTime       float32 `yaml:"ignition_time"`
	IntakePipeLength   float32 `yaml:"intake_pipe_length"`
	ExhaustPipeLength  float32 `yaml:"exhaust_pipe_length"`
	ExtractorPipeLength float32 `yaml:"extractor_pipe_length"`
}

// MufflerCavityLayout is the YAML-facing mirror of MufflerCavitySpec.
type MufflerCavityLayout struct {
	CavityLength float32 `yaml:"cavity_length"`
}

// EngineLayout is the complete YAML description of an engine, decoded into
// an EngineConfig by ToConfig. Fields left zero-valued in the document keep
// DefaultEngineConfig's value rather than being zeroed out, so a layout file
// only needs to state what it overrides.
type EngineLayout struct {
	RPM        float32 `yaml:"rpm"`
	SampleRate uint32  `yaml:"sample_rate"`

	Volume            float32 `yaml:"volume"`
	IntakeVolume      float32 `yaml:"intake_volume"`
	ExhaustVolume     float32 `yaml:"exhaust_volume"`
	VibrationsVolume  float32 `yaml:"vibrations_volume"`
	DCFilterFrequency float32 `yaml:"dc_filter_frequency"`

	IntakeNoiseFactor          float32 `yaml:"intake_noise_factor"`
	IntakeNoiseFilterFrequency float32 `yaml:"intake_noise_filter_frequency"`
	IntakeValveShift           float32 `yaml:"intake_valve_shift"`
	ExhaustValveShift          float32 `yaml:"exhaust_valve_shift"`

	CrankshaftFluctuation                 float32 `yaml:"crankshaft_fluctuation"`
	CrankshaftFluctuationFilterFrequency  float32 `yaml:"crankshaft_fluctuation_filter_frequency"`
	VibrationsFilterFrequency             float32 `yaml:"vibrations_filter_frequency"`

	StraightPipeLength            float32 `yaml:"straight_pipe_length"`
	StraightPipeExtractorSideRefl float32 `yaml:"straight_pipe_extractor_side_refl"`
	StraightPipeMufflerSideRefl   float32 `yaml:"straight_pipe_muffler_side_refl"`
	OutputSideRefl                float32 `yaml:"output_side_refl"`

	CylinderIntakeOpenedRefl    float32 `yaml:"cylinder_intake_opened_refl"`
	CylinderIntakeClosedRefl    float32 `yaml:"cylinder_intake_closed_refl"`
	CylinderExhaustOpenedRefl   float32 `yaml:"cylinder_exhaust_opened_refl"`
	CylinderExhaustClosedRefl   float32 `yaml:"cylinder_exhaust_closed_refl"`
	CylinderIntakeOpenEndRefl   float32 `yaml:"cylinder_intake_open_end_refl"`
	CylinderExtractorOpenEndRefl float32 `yaml:"cylinder_extractor_open_end_refl"`

	Cylinders      []CylinderLayout      `yaml:"cylinders"`
	MufflerCavities []MufflerCavityLayout `yaml:"muffler_cavities"`
}

// LoadLayout reads and decodes a YAML engine layout file.
func LoadLayout(path string) (*EngineLayout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read layout %s: %w", path, err)
	}
	var layout EngineLayout
	if err := yaml.Unmarshal(data, &layout); err != nil {
		return nil, &EngineError{Kind: ConfigInvalid, Msg: fmt.Sprintf("decode layout %s", path), Err: err}
	}
	return &layout, nil
}

// ToConfig builds an EngineConfig from the layout, starting from
// DefaultEngineConfig and overwriting every field the layout sets. Numeric
// fields left at their Go zero value in the YAML document are treated as
// "not specified" and keep the default; this includes RPM and SampleRate.
func (l *EngineLayout) ToConfig() *EngineConfig {
	cfg := DefaultEngineConfig()

	if l.RPM != 0 {
		cfg.RPM = l.RPM
	}
	if l.SampleRate != 0 {
		cfg.SampleRate = l.SampleRate
	}
	overrideF(&cfg.Volume, l.Volume)
	overrideF(&cfg.IntakeVolume, l.IntakeVolume)
	overrideF(&cfg.ExhaustVolume, l.ExhaustVolume)
	overrideF(&cfg.VibrationsVolume, l.VibrationsVolume)
	overrideF(&cfg.DCFilterFrequency, l.DCFilterFrequency)
	overrideF(&cfg.IntakeNoiseFactor, l.IntakeNoiseFactor)
	overrideF(&cfg.IntakeNoiseFilterFrequency, l.IntakeNoiseFilterFrequency)
	overrideF(&cfg.IntakeValveShift, l.IntakeValveShift)
	overrideF(&cfg.ExhaustValveShift, l.ExhaustValveShift)
	overrideF(&cfg.CrankshaftFluctuation, l.CrankshaftFluctuation)
	overrideF(&cfg.CrankshaftFluctuationFilterFrequency, l.CrankshaftFluctuationFilterFrequency)
	overrideF(&cfg.VibrationsFilterFrequency, l.VibrationsFilterFrequency)
	overrideF(&cfg.StraightPipeLength, l.StraightPipeLength)
	overrideF(&cfg.StraightPipeExtractorSideRefl, l.StraightPipeExtractorSideRefl)
	overrideF(&cfg.StraightPipeMufflerSideRefl, l.StraightPipeMufflerSideRefl)
	overrideF(&cfg.OutputSideRefl, l.OutputSideRefl)
	overrideF(&cfg.CylinderIntakeOpenedRefl, l.CylinderIntakeOpenedRefl)
	overrideF(&cfg.CylinderIntakeClosedRefl, l.CylinderIntakeClosedRefl)
	overrideF(&cfg.CylinderExhaustOpenedRefl, l.CylinderExhaustOpenedRefl)
	overrideF(&cfg.CylinderExhaustClosedRefl, l.CylinderExhaustClosedRefl)
	overrideF(&cfg.CylinderIntakeOpenEndRefl, l.CylinderIntakeOpenEndRefl)
	overrideF(&cfg.CylinderExtractorOpenEndRefl, l.CylinderExtractorOpenEndRefl)

	if len(l.Cylinders) > 0 {
		cfg.Cylinders = make([]CylinderSpec, len(l.Cylinders))
		for i, cl := range l.Cylinders {
			spec := DefaultCylinderSpec()
			overrideF(&spec.CrankOffset, cl.CrankOffset)
			overrideF(&spec.PistonMotionFactor, cl.PistonMotionFactor)
			overrideF(&spec.IgnitionFactor, cl.IgnitionFactor)
			overrideF(&spec.IgnitionTime, cl.IgnitionTime)
			overrideF(&spec.IntakePipeLength, cl.IntakePipeLength)
			overrideF(&spec.ExhaustPipeLength, cl.ExhaustPipeLength)
			overrideF(&spec.ExtractorPipeLength, cl.ExtractorPipeLength)
			cfg.Cylinders[i] = spec
		}
	}

	if len(l.MufflerCavities) > 0 {
		cfg.MufflerCavities = make([]MufflerCavitySpec, len(l.MufflerCavities))
		for i, ml := range l.MufflerCavities {
			spec := DefaultMufflerCavitySpec()
			overrideF(&spec.CavityLength, ml.CavityLength)
			cfg.MufflerCavities[i] = spec
		}
	}

	cfg.MarkDirty()
	return cfg
}

func overrideF(dst *float32, v float32) {
	if v != 0 {
		*dst = v
	}
}
