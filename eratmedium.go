package erato

// eratMediumPrime is a sieving prime dispatched to EratMedium: it
// crosses off about 8*sieveSize/p bits per segment, fewer than an
// EratSmall prime.
type eratMediumPrime struct {
	p         uint64
	wheelIdx  uint8
	nextDelta uint64
}

// eratMedium crosses off multiples of primes with
// sieveSize*FactorEratSmall < p <= sieveSize*FactorEratMedium. The
// size-class boundary itself is enforced once, by
// Engine.AddSievingPrime's dispatch switch; eratMedium trusts every
// prime it's given.
type eratMedium struct {
	primes []eratMediumPrime
}

func newEratMedium() *eratMedium {
	return &eratMedium{}
}

// wheelIdx seeds the phase of firstMultiple/p, the coprime multiplier,
// not of firstMultiple itself; see eratsmall.addSievingPrime.
func (em *eratMedium) addSievingPrime(p, firstMultiple, segmentLow uint64) {
	em.primes = append(em.primes, eratMediumPrime{
		p:         p,
		wheelIdx:  firstWheelIndex(firstMultiple / p),
		nextDelta: firstMultiple - segmentLow,
	})
}

func (em *eratMedium) crossOff(sieve []byte, segmentLow uint64, sieveSize int) {
	maxDelta := uint64(sieveSize)*NumbersPerByte + 1
	s := sieve[:sieveSize]

	for i := range em.primes {
		ep := &em.primes[i]
		p := ep.p
		delta := ep.nextDelta
		w := ep.wheelIdx

		// One multiple at a time, the same loop EratSmall runs; neither
		// is unrolled.
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
