// Package generator produces random passwords drawn from a fixed alphabet.
//
// Two sources are available. The LCG source reproduces the historical
// behaviour: a linear-congruential recurrence seeded from the wall clock, so
// the same seed always yields the same sequence. It is not suitable for
// security-sensitive secrets. The secure source draws from crypto/rand and
// keeps the same external contract (alphabet and exact output length).
package generator

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Alphabet is the fixed 73-character set every generated password is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789" +
	")(*&^%$#@!~"

const (
	lcgMultiplier uint64 = 1103515245
	lcgIncrement  uint64 = 12345
)

// Mode selects the random source used by New.
type Mode string

const (
	// ModeLCG selects the clock-seeded linear-congruential source.
	ModeLCG Mode = "lcg"
	// ModeSecure selects the crypto/rand source.
	ModeSecure Mode = "secure"
)

// Generator produces a password of exactly length characters from Alphabet.
type Generator interface {
	Generate(length uint64) string
}

// New returns the Generator for mode. now is used to seed the LCG source.
func New(mode Mode, now func() time.Time) (Generator, error) {
	switch mode {
	case ModeLCG, "":
		return NewLCG(now), nil
	case ModeSecure:
		return Secure{}, nil
	default:
		return nil, fmt.Errorf("unknown generator mode %q", mode)
	}
}

// LCG is the clock-seeded linear-congruential generator.
type LCG struct {
	now func() time.Time
}

// NewLCG creates an LCG seeded from now on every call to Generate.
func NewLCG(now func() time.Time) *LCG {
	if now == nil {
		now = time.Now
	}
	return &LCG{now: now}
}

// Generate returns length characters derived from the current time in nanoseconds.
func (g *LCG) Generate(length uint64) string {
	return Sequence(uint64(g.now().UnixNano()), length)
}

// Sequence runs the recurrence from seed and returns length characters.
// Arithmetic wraps at 64 bits.
func Sequence(seed, length uint64) string {
	n := uint64(len(Alphabet))
	buf := make([]byte, length)
	for i := range buf {
		seed = (seed + seed*lcgMultiplier + lcgIncrement) % n
		buf[i] = Alphabet[seed%n]
	}
	return string(buf)
}

// Secure draws characters from crypto/rand without modulo bias.
type Secure struct{}

// Generate returns length uniformly distributed characters from Alphabet.
func (Secure) Generate(length uint64) string {
	n := len(Alphabet)
	// Largest multiple of n that fits in a byte; bytes at or above it are rejected.
	limit := 256 - 256%n

	out := make([]byte, 0, length)
	chunk := make([]byte, 64)
	for uint64(len(out)) < length {
		// crypto/rand.Read never returns an error.
		_, _ = rand.Read(chunk)
		for _, b := range chunk {
			if int(b) >= limit {
				continue
			}
			out = append(out, Alphabet[int(b)%n])
			if uint64(len(out)) == length {
				break
			}
		}
	}
	return string(out)
}
