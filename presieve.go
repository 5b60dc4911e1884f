package erato

// preSievePrimes is the fixed candidate list this package draws from
// when building a PreSieve tile. preSieveLimit never exceeds 23, so no
// prime beyond it is ever needed.
var preSievePrimes = [...]uint64{7, 11, 13, 17, 19, 23}

// PreSieve holds a precomputed wheel-30 bitmap tile that has already
// had every multiple of the small primes up to a chosen limit cleared.
// Copying (a rotation of) the tile into a fresh segment is far cheaper
// than crossing off those same multiples segment by segment; see
// original_source/include/primesieve/PreSieve.hpp for the technique
// this is adapted from.
//
// A PreSieve is built once and never mutated afterward.
type PreSieve struct {
	limit uint32
	tile  []byte
}

// NewPreSieve builds the tile for all primes in (5, limit]. limit must
// be in [13, 23].
func NewPreSieve(limit uint32) (*PreSieve, error) {
	if limit < 13 || limit > 23 {
		return nil, newError(KindPreSieveOutOfBounds, "pre-sieve limit %d out of bounds [13, 23]", limit)
	}

	primes := primesUpTo(limit)
	period := uint64(2 * 3 * 5)
	for _, p := range primes {
		period *= p
	}
	tileLen := period / NumbersPerByte

	tile, err := safeMakeBytes(int(tileLen), "pre-sieve tile")
	if err != nil {
		return nil, err
	}
	for i := range tile {
		tile[i] = 0xff
	}

	maxDelta := tileLen*NumbersPerByte + 31
	for _, p := range primes {
		for m := p; m <= maxDelta; m += p {
			r := m % NumbersPerByte
			if residueToWheelIndex[r] < 0 {
				continue
			}
			byteIdx, bit := byteAndBit(m)
			if byteIdx >= tileLen {
				continue
			}
			tile[byteIdx] &^= 1 << bit
		}
	}

	return &PreSieve{limit: limit, tile: tile}, nil
}

// GetMaxPrime returns the pre-sieve limit: every prime up to it is
// folded into the tile, and every prime in (GetMaxPrime(), sqrtStop]
// must still be sieved explicitly.
func (ps *PreSieve) GetMaxPrime() uint64 {
	return uint64(ps.limit)
}

// Apply overwrites segment[:len(segment)] with the tile pattern
// rotated to align with segmentLow. Every bit set in the result is
// coprime to 2, 3, 5 and every pre-sieved prime; every bit representing
// a multiple of a pre-sieved prime, including the prime itself, is
// clear. It is the caller's job to restore pre-sieved primes that
// actually fall within the requested range and to mask out anything
// below the scan's true start.
func (ps *PreSieve) Apply(segment []byte, segmentLow uint64) {
	tileLen := uint64(len(ps.tile))
	offset := (segmentLow / NumbersPerByte) % tileLen

	n := copy(segment, ps.tile[offset:])
	for n < len(segment) {
		n += copy(segment[n:], ps.tile)
	}
}

func primesUpTo(limit uint32) []uint64 {
	primes := make([]uint64, 0, len(preSievePrimes))
	for _, p := range preSievePrimes {
		if p <= uint64(limit) {
			primes = append(primes, p)
		}
	}
	return primes
}
