// cylinder.go - one reciprocating cylinder: three waveguides plus excitation

package main

import "fmt"

// Cylinder couples an intake, exhaust, and extractor waveguide through
// crank-angle-driven valve modulation and a piston/ignition excitation term.
type Cylinder struct {
	crankOffset float32

	intakeWaveguide    *WaveGuide
	exhaustWaveguide   *WaveGuide
	extractorWaveguide *WaveGuide

	intakeOpenRefl    float32
	intakeClosedRefl  float32
	exhaustOpenRefl   float32
	exhaustClosedRefl float32

	pistonMotionFactor float32
	ignitionFactor     float32
	ignitionTime       float32

	cylSound         float32
	extractorExhaust float32
}

// NewCylinder returns a zero-valued cylinder; waveguides are attached via Modify.
func NewCylinder() *Cylinder {
	return &Cylinder{}
}

// Pop advances one sample: it derives this cylinder's crank angle from the
// shared crankshaft position, reads the three waveguides, and feeds the
// extractor's near end from the exhaust waveguide and the shared manifold
// pressure. It returns the intake/exhaust taps, the raw excitation sample
// (the "vibration" contribution), and whether any waveguide clamped.
func (c *Cylinder) Pop(crankPos, exhaustManifold, intakeValveShift, exhaustValveShift float32) (intake, exhaust, vibration float32, dampened bool) {
	crank := fmod1(crankPos + c.crankOffset)

	c.cylSound = pistonMotion(crank)*c.pistonMotionFactor + fuelIgnition(crank, c.ignitionTime)*c.ignitionFactor

	exVal := exhaustValve(fmod1(crank + exhaustValveShift))
	inVal := intakeValve(fmod1(crank + intakeValveShift))

	c.exhaustWaveguide.alpha = c.exhaustClosedRefl + (c.exhaustOpenRefl-c.exhaustClosedRefl)*exVal
	c.intakeWaveguide.alpha = c.intakeClosedRefl + (c.intakeOpenRefl-c.intakeClosedRefl)*inVal

	_, exC0, exDamp := c.exhaustWaveguide.Pop()
	_, inC0, inDamp := c.intakeWaveguide.Pop()
	extC1, extC0, extDamp := c.extractorWaveguide.Pop()

	c.extractorExhaust = extC1
	c.extractorWaveguide.Push(exC0, exhaustManifold)

	return inC0, extC0, c.cylSound, exDamp || inDamp || extDamp
}

// Push writes the push stage back into the exhaust and intake waveguides.
// intakeManifold is the shared intake collector contribution plus any
// turbulence noise gated by this cylinder's valve window.
func (c *Cylinder) Push(intakeManifold float32) {
	exIn := (1.0 - absf32(c.exhaustWaveguide.alpha)) * c.cylSound * 0.5
	c.exhaustWaveguide.Push(exIn, c.extractorExhaust)

	inIn := (1.0 - absf32(c.intakeWaveguide.alpha)) * c.cylSound * 0.5
	c.intakeWaveguide.Push(inIn, intakeManifold)
}

// Clear silences all three waveguides and the excitation scratch state.
func (c *Cylinder) Clear() {
	c.exhaustWaveguide.Clear()
	c.intakeWaveguide.Clear()
	c.extractorWaveguide.Clear()
	c.cylSound = 0
	c.extractorExhaust = 0
}

func (c *Cylinder) String() string {
	return fmt.Sprintf("Cylinder{offset=%.4f, piston=%.2f, ignition=%.2f}",
		c.crankOffset, c.pistonMotionFactor, c.ignitionFactor)
}
