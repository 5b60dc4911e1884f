package erato

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEratMediumCrossesOffExactMultiples(t *testing.T) {
	const sieveSize = 8
	sieve := allOnes(sieveSize)

	em := newEratMedium()
	// p=11, first crossable multiple is 121.
	em.addSievingPrime(11, 121, 0)
	em.crossOff(sieve, 0, sieveSize)

	got := crossedOffNumbers(sieve, 0)
	limit := uint64(sieveSize) * NumbersPerByte
	var want []uint64
	for m := uint64(121); m < limit; m += 11 {
		r := m % NumbersPerByte
		if residueToWheelIndex[r] < 0 {
			continue
		}
		want = append(want, m)
	}
	assert.Equal(t, want, got)
}

func TestEratMediumMultiplePrimesDoNotInterfere(t *testing.T) {
	const sieveSize = 8
	sieve := allOnes(sieveSize)

	em := newEratMedium()
	em.addSievingPrime(11, 121, 0)
	em.addSievingPrime(13, 169, 0)
	em.crossOff(sieve, 0, sieveSize)

	got := crossedOffNumbers(sieve, 0)
	limit := uint64(sieveSize) * NumbersPerByte
	wantSet := map[uint64]bool{}
	for _, p := range []uint64{11, 13} {
		for m := p * p; m < limit; m += p {
			r := m % NumbersPerByte
			if residueToWheelIndex[r] < 0 {
				continue
			}
			wantSet[m] = true
		}
	}
	assert.Len(t, got, len(wantSet))
	for _, n := range got {
		assert.True(t, wantSet[n], "unexpected crossed-off number %d", n)
	}
}
