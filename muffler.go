// muffler.go - straight pipe plus a parallel bank of cavity waveguides

package main

import "strconv"

// Muffler is one straight-pipe WaveGuide feeding a parallel bank of cavity
// WaveGuides. Cavity order affects stability bookkeeping only; their
// contributions sum.
type Muffler struct {
	straightPipe *WaveGuide
	cavities     []*WaveGuide
}

// NewMuffler returns an empty muffler; components are attached via the
// config builder.
func NewMuffler() *Muffler {
	return &Muffler{}
}

// Clear silences the straight pipe and every cavity.
func (m *Muffler) Clear() {
	m.straightPipe.Clear()
	for _, c := range m.cavities {
		c.Clear()
	}
}

func (m *Muffler) String() string {
	return "Muffler{cavities=" + strconv.Itoa(len(m.cavities)) + "}"
}
