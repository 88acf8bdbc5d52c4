package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(ns int64) func() time.Time {
	return func() time.Time { return time.Unix(0, ns) }
}

func TestAlphabetSize(t *testing.T) {
	assert.Len(t, Alphabet, 73)
}

func TestSequence_KnownVectors(t *testing.T) {
	tests := []struct {
		name   string
		seed   uint64
		length uint64
		want   string
	}{
		{name: "zero seed", seed: 0, length: 8, want: "I3eUQdFK"},
		{name: "wall clock seed", seed: 1700000000000000000, length: 12, want: "3eUQdFKMq2PO"},
		{name: "empty", seed: 99, length: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Sequence(tt.seed, tt.length))
		})
	}
}

func TestLCG_SameSeedSameOutput(t *testing.T) {
	g := NewLCG(fixedClock(1234567890))
	assert.Equal(t, g.Generate(32), g.Generate(32))
}

func TestGenerators_LengthAndAlphabet(t *testing.T) {
	generators := map[string]Generator{
		"lcg":    NewLCG(nil),
		"secure": Secure{},
	}

	for name, g := range generators {
		for _, length := range []uint64{0, 1, 8, 73, 500} {
			got := g.Generate(length)
			require.Lenf(t, got, int(length), "%s generator, length %d", name, length)
			for _, ch := range got {
				if !strings.ContainsRune(Alphabet, ch) {
					t.Errorf("%s generator produced %q outside the alphabet", name, ch)
				}
			}
		}
	}
}

func TestSecure_ProducesDistinctValues(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		p := Secure{}.Generate(16)
		if seen[p] {
			t.Fatalf("duplicate password generated: %q", p)
		}
		seen[p] = true
	}
}

func TestNew(t *testing.T) {
	g, err := New(ModeLCG, fixedClock(1))
	require.NoError(t, err)
	assert.IsType(t, &LCG{}, g)

	g, err = New("", nil)
	require.NoError(t, err)
	assert.IsType(t, &LCG{}, g)

	g, err = New(ModeSecure, nil)
	require.NoError(t, err)
	assert.IsType(t, Secure{}, g)

	_, err = New("quantum", nil)
	assert.ErrorContains(t, err, "unknown generator mode")
}
