package erato

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// crossedOffNumbers decodes every clear bit in sieve, sized sieveSize
// bytes over [segmentLow, segmentLow+30*sieveSize+1], back to numbers.
func crossedOffNumbers(sieve []byte, segmentLow uint64) []uint64 {
	var out []uint64
	for byteIdx, b := range sieve {
		for bit := 0; bit < 8; bit++ {
			if b&(1<<uint(bit)) == 0 {
				n := segmentLow + uint64(byteIdx)*NumbersPerByte + uint64(bitValue[bit])
				out = append(out, n)
			}
		}
	}
	return out
}

func allOnes(n int) []byte {
	s := make([]byte, n)
	for i := range s {
		s[i] = 0xff
	}
	return s
}

func TestEratSmallCrossesOffExactMultiples(t *testing.T) {
	const sieveSize = 4
	sieve := allOnes(sieveSize)

	es := newEratSmall()
	// p=7, first crossable multiple is 49.
	es.addSievingPrime(7, 49, 0)
	es.crossOff(sieve, 0, sieveSize)

	got := crossedOffNumbers(sieve, 0)
	limit := uint64(sieveSize) * NumbersPerByte
	var want []uint64
	for m := uint64(49); m < limit; m += 7 {
		r := m % NumbersPerByte
		if residueToWheelIndex[r] < 0 {
			continue
		}
		want = append(want, m)
	}
	assert.Equal(t, want, got)
}

func TestEratSmallCarriesStateAcrossSegments(t *testing.T) {
	const sieveSize = 1 // 30 numbers per segment
	es := newEratSmall()
	es.addSievingPrime(7, 49, 0)

	var all []uint64
	segmentLow := uint64(0)
	for i := 0; i < 6; i++ {
		sieve := allOnes(sieveSize)
		es.crossOff(sieve, segmentLow, sieveSize)
		all = append(all, crossedOffNumbers(sieve, segmentLow)...)
		segmentLow += uint64(sieveSize) * NumbersPerByte
	}

	limit := segmentLow
	var want []uint64
	for m := uint64(49); m < limit; m += 7 {
		r := m % NumbersPerByte
		if residueToWheelIndex[r] < 0 {
			continue
		}
		want = append(want, m)
	}
	assert.Equal(t, want, all)
}
