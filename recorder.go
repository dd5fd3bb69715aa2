// recorder.go - RPM-sweep baking into a three-channel, crossfaded sample bank

package main

import "math"

// BakeOptions parameterises Bake's RPM sweep.
type BakeOptions struct {
	MinRPM            float32
	TopRPM            float32
	SampleCount       int
	DurationPerSample float32
	FadeTime          float32
	PreheatTime       float32
	PaddingFrames     uint32
}

// BakedChannels holds the three parallel banks produced by one Bake call,
// one per named channel, sharing identical headers (descriptor RPMs and
// frame ranges) per the on-disk contract's three-parallel-blobs assumption.
//
// Channel naming: EngineCore.Gen produces (intake, vibration, exhaust).
// "vibration" carries the piston-motion and ignition excitation terms
// directly and is driven by crank position, so it is baked as the
// "crankshaft" channel (engine-block rumble); "intake" carries the
// turbulence/valve-noise texture associated with combustion and is baked
// as "ignition"; "exhaust" maps straight across.
type BakedChannels struct {
	Crankshaft *Bank
	Ignition   *Bank
	Exhaust    *Bank
	SampleRate uint32
}

// Bake duplicates cfg (so the live config is untouched while baking runs,
// matching the source recorder's practice), sweeps sampleCount equally
// spaced RPM values between MinRPM and TopRPM, and for each RPM renders a
// crossfaded seamless loop per channel followed by PaddingFrames of
// silence. The first RPM additionally preheats the engine for PreheatTime
// seconds (discarded) from a freshly cleared state so the waveguides settle
// before recording begins.
func Bake(cfg *EngineConfig, opts BakeOptions) (*BakedChannels, error) {
	work := cfg.Clone()
	work.RPM = opts.MinRPM
	if err := work.ClearBuffer(); err != nil {
		return nil, err
	}

	preheatFrames := int(opts.PreheatTime * float32(work.SampleRate))
	if err := work.SkipFrames(preheatFrames); err != nil {
		return nil, err
	}

	var crankPCM, ignPCM, exhPCM []int16
	var descriptors []BankDescriptor
	cumFrame := uint32(0)

	for i := 0; i < opts.SampleCount; i++ {
		splf := float32(0)
		if opts.SampleCount > 1 {
			splf = float32(i) / float32(opts.SampleCount-1)
		}
		rpm := opts.MinRPM + (opts.TopRPM-opts.MinRPM)*splf
		rps := rpm / 60.0

		frames := quantizeFrames(opts.DurationPerSample, rps, work.SampleRate)
		fadeFrames := quantizeFrames(opts.FadeTime, rps, work.SampleRate)
		renderLen := frames + fadeFrames

		work.RPM = rpm

		crankRaw := make([]float32, renderLen)
		ignRaw := make([]float32, renderLen)
		exhRaw := make([]float32, renderLen)

		for f := uint32(0); f < renderLen; f++ {
			intake, vibration, exhaust, _ := work.Gen()
			crankRaw[f] = vibration * cfg.VibrationsVolume * cfg.Volume
			ignRaw[f] = intake * cfg.IntakeVolume * cfg.Volume
			exhRaw[f] = exhaust * cfg.ExhaustVolume * cfg.Volume
		}

		crankOut := crossfadeLoop(crankRaw, frames, fadeFrames)
		ignOut := crossfadeLoop(ignRaw, frames, fadeFrames)
		exhOut := crossfadeLoop(exhRaw, frames, fadeFrames)

		start := cumFrame
		end := cumFrame + frames
		descriptors = append(descriptors, BankDescriptor{RPM: rpm, StartFrame: start, EndFrame: end})
		cumFrame = end + opts.PaddingFrames

		crankPCM = append(crankPCM, packStereoPCM16(crankOut)...)
		ignPCM = append(ignPCM, packStereoPCM16(ignOut)...)
		exhPCM = append(exhPCM, packStereoPCM16(exhOut)...)

		pad := make([]int16, opts.PaddingFrames*2)
		crankPCM = append(crankPCM, pad...)
		ignPCM = append(ignPCM, pad...)
		exhPCM = append(exhPCM, pad...)
	}

	return &BakedChannels{
		Crankshaft: &Bank{Descriptors: descriptors, PaddingFrames: opts.PaddingFrames, PCM: crankPCM, SampleRate: work.SampleRate},
		Ignition:   &Bank{Descriptors: descriptors, PaddingFrames: opts.PaddingFrames, PCM: ignPCM, SampleRate: work.SampleRate},
		Exhaust:    &Bank{Descriptors: descriptors, PaddingFrames: opts.PaddingFrames, PCM: exhPCM, SampleRate: work.SampleRate},
		SampleRate: work.SampleRate,
	}, nil
}

// RecordRaw renders duration seconds of the live mixed-and-DC-removed
// output (as a host would hear it through AudioGenerator) into a headerless
// interleaved stereo PCM16 buffer, for previewing a single RPM's tone
// without going through the baked-bank format.
func RecordRaw(cfg *EngineConfig, duration float32) ([]int16, error) {
	work := cfg.Clone()
	if err := work.ClearBuffer(); err != nil {
		return nil, err
	}

	frames := int(duration * float32(work.SampleRate))
	gen := NewAudioGenerator(work)
	out := make([]float32, frames*2)
	gen.Fill(out, frames, frames)

	pcm := make([]int16, frames*2)
	for i, s := range out {
		pcm[i] = clampPCM16(s)
	}
	return pcm, nil
}

// quantizeFrames converts a duration at rps (revolutions per second, here
// reused as cycles-per-second for the excitation waveform) into a frame
// count covering a whole number of cycles, rounding the cycle count up so
// a short requested duration still captures at least one full cycle.
func quantizeFrames(duration, rps float32, sampleRate uint32) uint32 {
	if rps <= 0 {
		return 1
	}
	cycles := float32(math.Ceil(float64(duration * rps)))
	if cycles < 1 {
		cycles = 1
	}
	frames := uint32((cycles / rps) * float32(sampleRate))
	if frames < 1 {
		frames = 1
	}
	return frames
}

// crossfadeLoop blends the head of src with its extended tail so looping
// the returned, frames-long buffer produces no step discontinuity: src
// must be frames+fadeFrames long.
func crossfadeLoop(src []float32, frames, fadeFrames uint32) []float32 {
	out := make([]float32, frames)
	if fadeFrames == 0 {
		copy(out, src[:frames])
		return out
	}
	for i := uint32(0); i < frames; i++ {
		if i < fadeFrames {
			t := float32(i) / float32(fadeFrames)
			out[i] = src[i]*t + src[frames+i]*(1-t)
		} else {
			out[i] = src[i]
		}
	}
	return out
}

// packStereoPCM16 duplicates each mono sample to both channels and packs it
// as clamped 16-bit PCM, matching the reference recorder's clamp-then-scale.
func packStereoPCM16(mono []float32) []int16 {
	pcm := make([]int16, len(mono)*2)
	for i, s := range mono {
		v := clampPCM16(s)
		pcm[i*2] = v
		pcm[i*2+1] = v
	}
	return pcm
}

func clampPCM16(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	v := int32(s * 32768)
	if v < -32768 {
		v = -32768
	} else if v > 32767 {
		v = 32767
	}
	return int16(v)
}
