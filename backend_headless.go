//go:build headless

// backend_headless.go - no-op audio backend for headless/CI builds

package main

// OtoPlayer is a no-op stand-in for backend_oto.go's player, used when the
// headless build tag excludes real audio output (CI, servers without a
// sound device).
type OtoPlayer struct {
	started bool
	gen     *AudioGenerator
}

// NewOtoPlayer returns a player that discards all output.
func NewOtoPlayer(sampleRate int) (*OtoPlayer, error) {
	return &OtoPlayer{}, nil
}

// SetupPlayer records gen but never reads from it.
func (op *OtoPlayer) SetupPlayer(gen *AudioGenerator) {
	op.gen = gen
}

// Read discards the request, reporting success with zeroed output.
func (op *OtoPlayer) Read(p []byte) (n int, err error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

// Start marks playback active.
func (op *OtoPlayer) Start() {
	op.started = true
}

// Stop marks playback inactive.
func (op *OtoPlayer) Stop() {
	op.started = false
}

// Close stops playback.
func (op *OtoPlayer) Close() {
	op.started = false
}

// IsStarted reports whether Start has been called without a matching Stop.
func (op *OtoPlayer) IsStarted() bool {
	return op.started
}
