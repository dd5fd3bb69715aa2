// sample_bank_player.go - pitch-shifted, RPM-interpolated playback of a baked bank

package main

// Channel plays back one baked Bank: each descriptor advances its own
// playback phase at a rate pitched by the ratio of playback RPM to the
// descriptor's recorded RPM, and GetSample blends the two descriptors
// bracketing the current RPM.
type Channel struct {
	bank   *Bank
	phases []float32
}

// NewChannel attaches bank, allocating one phase accumulator per descriptor.
func NewChannel(bank *Bank) *Channel {
	return &Channel{bank: bank, phases: make([]float32, len(bank.Descriptors))}
}

// Advance moves every descriptor's phase forward by dt seconds at the given
// playback RPM.
func (c *Channel) Advance(rpm float32, dt float32) {
	if c.bank.Cleared {
		return
	}
	for i, d := range c.bank.Descriptors {
		segLen := d.EndFrame - d.StartFrame
		if segLen == 0 {
			continue
		}
		sampleRateRatio := float32(c.bank.SampleRate) / float32(segLen)
		c.phases[i] = fmod1(c.phases[i] + sampleRateRatio*(rpm/d.RPM)*dt)
	}
}

// SetPos seeds every descriptor's phase to a fixed offset in seconds at the
// given RPM, bypassing Advance's accumulation (used when (re)starting
// playback mid-stream).
func (c *Channel) SetPos(rpm float32, secs float32) {
	if c.bank.Cleared {
		return
	}
	for i, d := range c.bank.Descriptors {
		segLen := d.EndFrame - d.StartFrame
		if segLen == 0 {
			continue
		}
		sampleRateRatio := float32(c.bank.SampleRate) / float32(segLen)
		c.phases[i] = fmod1(sampleRateRatio * secs * (rpm / d.RPM))
	}
}

// sampleDescriptor linearly interpolates the PCM16 data for descriptor idx
// at its current phase.
func (c *Channel) sampleDescriptor(idx int) float32 {
	d := c.bank.Descriptors[idx]
	segLen := d.EndFrame - d.StartFrame
	if segLen == 0 {
		return 0
	}
	t := c.phases[idx] * float32(segLen)
	i := uint32(t)
	j := i + 1
	frac := t - float32(i)

	a := pcm16ToFloat(c.bank.PCM[(d.StartFrame+i%segLen)*2])
	b := pcm16ToFloat(c.bank.PCM[(d.StartFrame+j%segLen)*2])
	return a*(1-frac) + b*frac
}

// GetSample returns the channel's output at the given playback RPM,
// bracketing and blending the two nearest descriptors (or returning the
// lone descriptor's sample if there's only one).
func (c *Channel) GetSample(rpm float32) float32 {
	n := len(c.bank.Descriptors)
	if c.bank.Cleared || n == 0 {
		return 0
	}
	if n == 1 {
		return c.sampleDescriptor(0)
	}

	for i := 0; i < n-1; i++ {
		d0 := c.bank.Descriptors[i]
		d1 := c.bank.Descriptors[i+1]

		if i < n-2 && d1.RPM < rpm {
			continue
		}
		if i > 0 && d0.RPM > rpm {
			continue
		}

		st := (rpm - d0.RPM) / (d1.RPM - d0.RPM)
		st = clamp01(st)

		a := c.sampleDescriptor(i)
		b := c.sampleDescriptor(i + 1)
		return a*(1-st) + b*st
	}
	return 0
}

// SampleBankPlayer mixes a crankshaft, ignition, and exhaust Channel at a
// shared, slewed RPM, with independent slewed per-channel and master gains.
type SampleBankPlayer struct {
	Crankshaft *Channel
	Ignition   *Channel
	Exhaust    *Channel

	RPM              float32
	MasterVolume     float32
	CrankshaftVolume float32
	IgnitionVolume   float32
	ExhaustVolume    float32

	// RPMBlend and VolumeBlend are slew rates in units/second; negative
	// means "snap" (no slewing).
	RPMBlend    float32
	VolumeBlend float32

	curRPM    float32
	curMaster float32
	curCrank  float32
	curIgn    float32
	curExh    float32
}

// NewSampleBankPlayer builds a player from three parsed banks (the result
// of parsing the three parallel blobs the on-disk format assumes).
func NewSampleBankPlayer(crankshaft, ignition, exhaust *Bank) *SampleBankPlayer {
	return &SampleBankPlayer{
		Crankshaft:       NewChannel(crankshaft),
		Ignition:         NewChannel(ignition),
		Exhaust:          NewChannel(exhaust),
		MasterVolume:     1.0,
		CrankshaftVolume: 1.0,
		IgnitionVolume:   1.0,
		ExhaustVolume:    1.0,
		RPMBlend:         -1,
		VolumeBlend:      -1,
	}
}

// Process advances playback by dt seconds and returns the mixed mono sample.
func (p *SampleBankPlayer) Process(dt float32) float32 {
	p.curRPM = slew(p.curRPM, p.RPM, p.RPMBlend, dt)
	p.curMaster = slew(p.curMaster, p.MasterVolume, p.VolumeBlend, dt)
	p.curCrank = slew(p.curCrank, p.CrankshaftVolume, p.VolumeBlend, dt)
	p.curIgn = slew(p.curIgn, p.IgnitionVolume, p.VolumeBlend, dt)
	p.curExh = slew(p.curExh, p.ExhaustVolume, p.VolumeBlend, dt)

	p.Crankshaft.Advance(p.curRPM, dt)
	p.Ignition.Advance(p.curRPM, dt)
	p.Exhaust.Advance(p.curRPM, dt)

	crank := p.Crankshaft.GetSample(p.curRPM) * p.curCrank
	ign := p.Ignition.GetSample(p.curRPM) * p.curIgn
	exh := p.Exhaust.GetSample(p.curRPM) * p.curExh

	return (crank + ign + exh) * p.curMaster
}

func slew(current, target, rate, dt float32) float32 {
	if rate < 0 {
		return target
	}
	maxStep := rate * dt
	diff := target - current
	if diff > maxStep {
		diff = maxStep
	} else if diff < -maxStep {
		diff = -maxStep
	}
	return current + diff
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func pcm16ToFloat(v int16) float32 {
	return float32(v) / 32768.0
}
