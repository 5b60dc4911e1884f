package erato

// eratSmallPrime is a sieving prime dispatched to EratSmall: it has so
// many multiples per segment that a tight loop, not a per-multiple
// dispatch, dominates its cost.
type eratSmallPrime struct {
	p         uint64
	wheelIdx  uint8
	nextDelta uint64 // offset, in numbers, of the next multiple from the segment currently being crossed off
}

// eratSmall crosses off multiples of primes p <= sieveSize*FactorEratSmall.
// The size-class boundary itself is enforced once, by
// Engine.AddSievingPrime's dispatch switch; eratSmall trusts every
// prime it's given.
type eratSmall struct {
	primes []eratSmallPrime
}

func newEratSmall() *eratSmall {
	return &eratSmall{}
}

// addSievingPrime records p, whose first crossable multiple (coprime
// to 2, 3 and 5) is firstMultiple, stored as an offset in numbers from
// segmentLow of the segment currently being processed. wheelIdx tracks
// the phase of firstMultiple/p, the coprime multiplier, not of
// firstMultiple itself: successive multiples of p advance by
// p*wheelGap[phase of the multiplier], and only the multiplier's
// residues cycle through coprimeResidue in that order.
func (es *eratSmall) addSievingPrime(p, firstMultiple, segmentLow uint64) {
	delta := firstMultiple - segmentLow
	es.primes = append(es.primes, eratSmallPrime{
		p:         p,
		wheelIdx:  firstWheelIndex(firstMultiple / p),
		nextDelta: delta,
	})
}

// crossOff clears the bit for every multiple of every tracked prime
// that falls inside sieve, sized sieveSize bytes starting at
// segmentLow, then leaves nextDelta pointing past the segment's end so
// the next call (against segmentLow+30*sieveSize) picks up where this
// one left off.
func (es *eratSmall) crossOff(sieve []byte, segmentLow uint64, sieveSize int) {
	maxDelta := uint64(sieveSize)*NumbersPerByte + 1
	// Slicing to a fixed length up front, in the style of
	// fedesilva-minnieml's sieve-opt benchmark, lets the compiler prove
	// every index in the hot loop below is in range.
	s := sieve[:sieveSize]

	for i := range es.primes {
		ep := &es.primes[i]
		p := ep.p
		delta := ep.nextDelta
		w := ep.wheelIdx

		for delta <= maxDelta {
			byteIdx, bit := byteAndBit(delta)
			s[byteIdx] &^= 1 << bit
			delta += p * uint64(wheelGap[w])
			w = (w + 1) & 7
		}

		ep.nextDelta = delta - uint64(sieveSize)*NumbersPerByte
		ep.wheelIdx = w
	}
}
