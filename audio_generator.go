// audio_generator.go - pulls frames from an EngineConfig, removes DC, and auto-gains

package main

// AudioGenerator is a pull producer: the host calls Fill to request at most
// maxFrames stereo frames at the config's sample rate. It applies the
// per-channel/master mix, DC removal, and a slewed auto-gain so clipping
// cannot occur while avoiding an abrupt gain jump.
type AudioGenerator struct {
	config *EngineConfig
	gain   float32

	// Dampened mirrors the config's most recent waveguide dampening flag
	// across the whole fill, for host diagnostics.
	Dampened bool
}

// NewAudioGenerator wraps config; gain starts at unity.
func NewAudioGenerator(config *EngineConfig) *AudioGenerator {
	return &AudioGenerator{config: config, gain: 1.0}
}

// Fill writes up to min(capacity, maxFrames) interleaved stereo frames into
// out (len(out) must be >= 2*frames actually written) and returns the frame
// count written. An invalid config silently yields n zero-filled frames,
// per the no-throw real-time error policy.
func (g *AudioGenerator) Fill(out []float32, capacity, maxFrames int) int {
	n := capacity
	if maxFrames < n {
		n = maxFrames
	}
	if n <= 0 {
		return 0
	}

	if !g.config.IsEngineValid() {
		for i := 0; i < n*2 && i < len(out); i++ {
			out[i] = 0
		}
		return n
	}

	c := g.config
	dcLP := c.dcLP

	mixed := make([]float32, n)
	anyDampened := false

	for i := 0; i < n; i++ {
		intake, vibration, exhaust, dampened := c.Gen()
		anyDampened = anyDampened || dampened

		m := intake*c.IntakeVolume + vibration*c.VibrationsVolume + exhaust*c.ExhaustVolume
		m *= c.Volume
		m -= dcLP.Filter(m)
		mixed[i] = m
	}
	g.Dampened = anyDampened

	peak := float32(0)
	for _, m := range mixed {
		abs := m
		if abs < 0 {
			abs = -abs
		}
		if abs > peak {
			peak = abs
		}
	}

	target := float32(1.0)
	if peak > 1.0 {
		target = 1.0 / peak
	}

	// Slew gain toward target with a unit time-constant: max step per
	// sample is the sample period itself, so gain fully tracks a sustained
	// target change within one second.
	step := 1.0 / float32(c.SampleRate)

	for i := 0; i < n; i++ {
		diff := target - g.gain
		if diff > step {
			diff = step
		} else if diff < -step {
			diff = -step
		}
		g.gain += diff

		y := mixed[i] * g.gain
		if 2*i+1 < len(out) {
			out[2*i] = y
			out[2*i+1] = y
		}
	}

	return n
}
