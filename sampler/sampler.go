// Package sampler provides seeded random sources for Monte Carlo
// estimation. Every partition gets its own independent stream derived from
// a single base seed, so a run is reproducible for a fixed seed and worker
// count.
package sampler

import (
	"encoding/binary"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/weiihann/pibench/montecarlo"
)

// Supported sampler kinds.
const (
	KindPCG     = "pcg"
	KindChaCha8 = "chacha8"
	KindLCG     = "lcg"
)

// Config controls sampler construction.
type Config struct {
	Kind string
	Seed uint64
}

// Kinds returns the list of supported sampler kinds.
func Kinds() []string {
	return []string{KindPCG, KindChaCha8, KindLCG}
}

// NewFactory returns a factory producing one sampler per partition. A zero
// seed is replaced by the current time.
func NewFactory(cfg Config) (montecarlo.SamplerFactory, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	switch cfg.Kind {
	case KindPCG, "":
		return func(p montecarlo.Partition) montecarlo.Sampler {
			return newRandSampler(rand.NewPCG(seed, uint64(p.Index)))
		}, nil

	case KindChaCha8:
		return func(p montecarlo.Partition) montecarlo.Sampler {
			return newRandSampler(rand.NewChaCha8(chachaSeed(seed, p.Index)))
		}, nil

	case KindLCG:
		return func(p montecarlo.Partition) montecarlo.Sampler {
			return NewLCG(uint32(seed) + uint32(p.Index)*67890)
		}, nil

	default:
		return nil, fmt.Errorf("unknown sampler %q (want one of %v)",
			cfg.Kind, Kinds())
	}
}

type randSampler struct {
	rng *rand.Rand
}

func newRandSampler(src rand.Source) *randSampler {
	return &randSampler{rng: rand.New(src)}
}

func (s *randSampler) Next() (float64, float64) {
	return s.rng.Float64(), s.rng.Float64()
}

func chachaSeed(seed uint64, stream int) [32]byte {
	var buf [32]byte

	binary.LittleEndian.PutUint64(buf[0:8], seed)
	binary.LittleEndian.PutUint64(buf[8:16], uint64(stream))

	return buf
}

// LCG is a 32-bit linear congruential generator using the Numerical Recipes
// constants. It is fast and portable but statistically weak.
type LCG struct {
	state uint32
}

// NewLCG returns an LCG starting from seed.
func NewLCG(seed uint32) *LCG {
	return &LCG{state: seed}
}

// Next returns the next two draws.
func (l *LCG) Next() (float64, float64) {
	return l.float(), l.float()
}

// float keeps the low 31 bits and scales by 2^31 so the result stays
// strictly below 1.
func (l *LCG) float() float64 {
	l.state = l.state*1664525 + 1013904223

	return float64(l.state&0x7FFFFFFF) / float64(1<<31)
}
