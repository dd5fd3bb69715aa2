//go:build !headless

// backend_oto.go - oto v3 real-time playback of an AudioGenerator

package main

import (
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/ebitengine/oto/v3"
)

// OtoPlayer drives an ebitengine/oto/v3 player from an AudioGenerator's
// interleaved stereo float32 output. The generator pointer is read via
// atomic.Pointer so the oto callback thread never blocks behind setup code.
type OtoPlayer struct {
	ctx       *oto.Context
	player    *oto.Player
	gen       atomic.Pointer[AudioGenerator]
	sampleBuf []float32
	started   bool
	mutex     sync.Mutex
}

// NewOtoPlayer opens an oto context for stereo float32 output at sampleRate.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	return &OtoPlayer{ctx: ctx}, nil
}

// SetupPlayer attaches gen as the sample source and prepares the oto player.
func (op *OtoPlayer) SetupPlayer(gen *AudioGenerator) {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	op.gen.Store(gen)
	op.player = op.ctx.NewPlayer(op)
	op.sampleBuf = make([]float32, 4096)
}

// Read implements io.Reader for oto: it pulls interleaved stereo frames from
// the generator and copies them into p as little-endian float32 bytes.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	gen := op.gen.Load()
	if gen == nil {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}

	numSamples := len(p) / 4
	if len(op.sampleBuf) < numSamples {
		op.sampleBuf = make([]float32, numSamples)
	}
	samples := op.sampleBuf[:numSamples]

	frames := numSamples / 2
	written := gen.Fill(samples, frames, frames)
	for i := written * 2; i < numSamples; i++ {
		samples[i] = 0
	}

	copy(p, (*[1 << 30]byte)(unsafe.Pointer(&samples[0]))[:len(p)])
	return len(p), nil
}

// Start begins playback.
func (op *OtoPlayer) Start() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if !op.started && op.player != nil {
		op.player.Play()
		op.started = true
	}
}

// Stop halts playback without releasing the underlying player.
func (op *OtoPlayer) Stop() {
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.started && op.player != nil {
		op.player.Pause()
		op.started = false
	}
}

// Close stops playback and releases the player.
func (op *OtoPlayer) Close() {
	op.Stop()
	op.mutex.Lock()
	defer op.mutex.Unlock()

	if op.player != nil {
		op.player.Close()
		op.player = nil
	}
}

// IsStarted reports whether playback is active.
func (op *OtoPlayer) IsStarted() bool {
	op.mutex.Lock()
	defer op.mutex.Unlock()
	return op.started
}
