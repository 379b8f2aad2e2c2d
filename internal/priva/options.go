package priva

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"
)

type options struct {
	rng *rand.Rand
	now func() time.Time
}

// Option configures a priva at construction.
type Option func(*options)

// WithRand sets the random source used for matchmaking tie-breaks. The
// source is not safe for concurrent use, so it must not be shared between
// privas used from different goroutines.
func WithRand(r *rand.Rand) Option {
	return func(o *options) {
		o.rng = r
	}
}

// WithSeed makes matchmaking reproducible. Every priva built with the
// option gets its own source.
func WithSeed(seed uint64) Option {
	return func(o *options) {
		o.rng = rand.New(rand.NewPCG(seed, seed))
	}
}

// WithClock replaces time.Now for log and battle timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rng == nil {
		o.rng = rand.New(rand.NewPCG(newSeed()))
	}
	return o
}

func newSeed() (uint64, uint64) {
	var buf [16]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.Uint64(), rand.Uint64()
	}
	return binary.LittleEndian.Uint64(buf[:8]), binary.LittleEndian.Uint64(buf[8:])
}
