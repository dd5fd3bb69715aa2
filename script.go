// script.go - one-shot Lua scripting surface for generating an EngineLayout

package main

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
)

// RunLayoutScript executes a Lua script that builds an engine layout by
// assigning global variables (mirroring EngineLayout's YAML field names) and
// appending to a global "cylinders" table of tables, then returns the
// resulting EngineLayout. The script runs once, to completion, and has no
// access to the live engine: it is a generator, not a controller.
func RunLayoutScript(source string) (*EngineLayout, error) {
	L := lua.NewState()
	defer L.Close()

	if err := L.DoString(source); err != nil {
		return nil, &EngineError{Kind: ConfigInvalid, Msg: "layout script failed", Err: err}
	}

	layout := &EngineLayout{}

	layout.RPM = float32(luaNumber(L, "rpm", 0))
	layout.SampleRate = uint32(luaNumber(L, "sample_rate", 0))
	layout.Volume = float32(luaNumber(L, "volume", 0))
	layout.IntakeVolume = float32(luaNumber(L, "intake_volume", 0))
	layout.ExhaustVolume = float32(luaNumber(L, "exhaust_volume", 0))
	layout.VibrationsVolume = float32(luaNumber(L, "vibrations_volume", 0))
	layout.DCFilterFrequency = float32(luaNumber(L, "dc_filter_frequency", 0))
	layout.IntakeNoiseFactor = float32(luaNumber(L, "intake_noise_factor", 0))
	layout.IntakeNoiseFilterFrequency = float32(luaNumber(L, "intake_noise_filter_frequency", 0))
	layout.IntakeValveShift = float32(luaNumber(L, "intake_valve_shift", 0))
	layout.ExhaustValveShift = float32(luaNumber(L, "exhaust_valve_shift", 0))
	layout.CrankshaftFluctuation = float32(luaNumber(L, "crankshaft_fluctuation", 0))
	layout.CrankshaftFluctuationFilterFrequency = float32(luaNumber(L, "crankshaft_fluctuation_filter_frequency", 0))
	layout.VibrationsFilterFrequency = float32(luaNumber(L, "vibrations_filter_frequency", 0))
	layout.StraightPipeLength = float32(luaNumber(L, "straight_pipe_length", 0))
	layout.StraightPipeExtractorSideRefl = float32(luaNumber(L, "straight_pipe_extractor_side_refl", 0))
	layout.StraightPipeMufflerSideRefl = float32(luaNumber(L, "straight_pipe_muffler_side_refl", 0))
	layout.OutputSideRefl = float32(luaNumber(L, "output_side_refl", 0))
	layout.CylinderIntakeOpenedRefl = float32(luaNumber(L, "cylinder_intake_opened_refl", 0))
	layout.CylinderIntakeClosedRefl = float32(luaNumber(L, "cylinder_intake_closed_refl", 0))
	layout.CylinderExhaustOpenedRefl = float32(luaNumber(L, "cylinder_exhaust_opened_refl", 0))
	layout.CylinderExhaustClosedRefl = float32(luaNumber(L, "cylinder_exhaust_closed_refl", 0))
	layout.CylinderIntakeOpenEndRefl = float32(luaNumber(L, "cylinder_intake_open_end_refl", 0))
	layout.CylinderExtractorOpenEndRefl = float32(luaNumber(L, "cylinder_extractor_open_end_refl", 0))

	cylinders, err := luaCylinders(L)
	if err != nil {
		return nil, err
	}
	layout.Cylinders = cylinders

	cavities, err := luaCavities(L)
	if err != nil {
		return nil, err
	}
	layout.MufflerCavities = cavities

	return layout, nil
}

func luaNumber(L *lua.LState, name string, def float64) float64 {
	v := L.GetGlobal(name)
	if n, ok := v.(lua.LNumber); ok {
		return float64(n)
	}
	return def
}

func luaCylinders(L *lua.LState) ([]CylinderLayout, error) {
	v := L.GetGlobal("cylinders")
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, nil
	}

	var out []CylinderLayout
	var walkErr error
	tbl.ForEach(func(_, value lua.LValue) {
		row, ok := value.(*lua.LTable)
		if !ok {
			walkErr = fmt.Errorf("cylinders entry is not a table")
			return
		}
		out = append(out, CylinderLayout{
			CrankOffset:         float32(fieldNumber(row, "crank_offset")),
			PistonMotionFactor:  float32(fieldNumber(row, "piston_motion_factor")),
			IgnitionFactor:      float32(fieldNumber(row, "ignition_factor")),
			IgnitionTime:        float32(fieldNumber(row, "ignition_time")),
			IntakePipeLength:    float32(fieldNumber(row, "intake_pipe_length")),
			ExhaustPipeLength:   float32(fieldNumber(row, "exhaust_pipe_length")),
			ExtractorPipeLength: float32(fieldNumber(row, "extractor_pipe_length")),
		})
	})
	return out, walkErr
}

func luaCavities(L *lua.LState) ([]MufflerCavityLayout, error) {
	v := L.GetGlobal("muffler_cavities")
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, nil
	}

	var out []MufflerCavityLayout
	var walkErr error
	tbl.ForEach(func(_, value lua.LValue) {
		row, ok := value.(*lua.LTable)
		if !ok {
			walkErr = fmt.Errorf("muffler_cavities entry is not a table")
			return
		}
		out = append(out, MufflerCavityLayout{CavityLength: float32(fieldNumber(row, "cavity_length"))})
	})
	return out, walkErr
}

func fieldNumber(tbl *lua.LTable, name string) float64 {
	if n, ok := tbl.RawGetString(name).(lua.LNumber); ok {
		return float64(n)
	}
	return 0
}
