package cryptoclient

import "sync/atomic"

type readiness int32

const (
	notReady readiness = iota
	ready
)

// gate moves from notReady to ready once and never back.
type gate struct {
	state atomic.Int32
}

func (g *gate) open() { g.state.Store(int32(ready)) }

func (g *gate) isOpen() bool { return readiness(g.state.Load()) == ready }

func (g *gate) check() error {
	if !g.isOpen() {
		return ErrNotInitialized
	}
	return nil
}
