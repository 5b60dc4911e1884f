package erato

// FactorEratSmall and FactorEratMedium partition sieving primes across
// the three crossing-off engines. They are expressed as multiples of
// sieveSize (in bytes) and compared directly against a prime's value.
//
// FactorEratSmall is a pure tuning knob: raising or lowering it only
// shifts primes between EratSmall's and EratMedium's lists, which run
// the same one-multiple-at-a-time loop (neither is unrolled).
// FactorEratMedium is not: EratBig's bucket
// re-scheduling (see eratbig.go) relies on every prime routed to it
// having at most one multiple per segment, which holds only once
// p exceeds a full segment's span of 30*sieveSize numbers. Lowering it
// below 30 would let two multiples of the same prime land in one
// segment and break EratBig's map-keyed bucket invariant.
const (
	FactorEratSmall  = 0.1
	FactorEratMedium = 30.0
)

// MaxStop is the largest stop value this package will sieve to:
// 2^64 - 10*2^32. The margin keeps every sieving prime (bounded by
// sqrt(stop)) comfortably inside uint32, which EratBig relies on, and
// leaves headroom for advancing next-multiple offsets without
// overflow.
const maxStopValue = ^uint64(0) - 10*(uint64(1)<<32) + 1

// MaxStop returns the largest stop value NewEngine will accept.
func MaxStop() uint64 { return maxStopValue }

// Engine drives one segmented sieve of Eratosthenes scan over
// [start, stop]. It is single-threaded, synchronous, and owns its
// segment buffer and crossers exclusively: nothing outside the Engine
// touches them, and nothing inside blocks or suspends.
type Engine struct {
	start, stop   uint64
	sieveSize     int
	preSieveLimit uint32
	sqrtStop      uint64

	preSieve *PreSieve
	small    *eratSmall
	medium   *eratMedium
	big      *eratBig

	smallLimit  uint64
	mediumLimit uint64

	segmentLow  uint64
	segmentHigh uint64
	sieve       []byte

	firstSegment bool
	finished     bool
	stopped      bool

	onSegment func(bitmap []byte, segmentLow uint64) bool
}

// NewEngine constructs an Engine for [start, stop]. sieveSizeKB is
// clamped to [1, 4096] and rounded down to a power of two.
// preSieveLimit must be in [13, 23]. onSegment is called once per
// segment with the processed bitmap and that segment's low bound; it
// returns false to stop the scan early, replacing the
// exception-for-early-termination pattern of the original
// implementation with an explicit, checked return value.
func NewEngine(start, stop uint64, sieveSizeKB int, preSieveLimit uint32, onSegment func(bitmap []byte, segmentLow uint64) bool) (*Engine, error) {
	if start < 7 || start > stop {
		return nil, newError(KindInvalidRange, "invalid range [%d, %d]: start must be >= 7 and <= stop", start, stop)
	}
	if stop > maxStopValue {
		return nil, newError(KindStopTooLarge, "stop %d exceeds MaxStop %d", stop, maxStopValue)
	}
	if onSegment == nil {
		return nil, newError(KindInvalidRange, "onSegment callback must not be nil")
	}

	sieveSize, err := normalizeSieveSize(sieveSizeKB)
	if err != nil {
		return nil, err
	}

	preSieve, err := NewPreSieve(preSieveLimit)
	if err != nil {
		return nil, err
	}

	sieve, err := safeMakeBytes(sieveSize, "segment buffer")
	if err != nil {
		return nil, err
	}

	segmentLow := start - byteRemainder(start)
	sqrtStop := isqrt(stop)

	e := &Engine{
		start:         start,
		stop:          stop,
		sieveSize:     sieveSize,
		preSieveLimit: preSieveLimit,
		sqrtStop:      sqrtStop,
		preSieve:      preSieve,
		small:         newEratSmall(),
		medium:        newEratMedium(),
		big:           newEratBig(sieveSize),
		smallLimit:    uint64(float64(sieveSize) * FactorEratSmall),
		mediumLimit:   uint64(float64(sieveSize) * FactorEratMedium),
		segmentLow:    segmentLow,
		segmentHigh:   segmentLow + uint64(sieveSize)*NumbersPerByte + 1,
		sieve:         sieve,
		firstSegment:  true,
		onSegment:     onSegment,
	}
	return e, nil
}

func normalizeSieveSize(kb int) (int, error) {
	if kb < 1 {
		kb = 1
	}
	if kb > 4096 {
		kb = 4096
	}
	pow := 1
	for pow*2 <= kb {
		pow *= 2
	}
	size := pow * 1024
	if size <= 0 || size > 4096*1024 {
		return 0, newError(KindSieveSizeOutOfBounds, "normalized sieve size %d out of bounds", size)
	}
	return size, nil
}

// SqrtStop returns floor(sqrt(stop)): the upper bound sieving primes
// must respect.
func (e *Engine) SqrtStop() uint64 { return e.sqrtStop }

// PreSieveLimit returns the pre-sieve limit: every prime up to it is
// already eliminated by the pre-sieve tile; the caller must not add it,
// or anything smaller, via AddSievingPrime.
func (e *Engine) PreSieveLimit() uint32 { return e.preSieveLimit }

// AddSievingPrime dispatches p, which must satisfy
// preSieveLimit < p <= sqrtStop, to whichever crossing-off engine owns
// its size class. Primes must be added in strictly increasing order.
func (e *Engine) AddSievingPrime(p uint64) error {
	if e.finished || e.stopped {
		return nil
	}

	first := firstMultiple(p, e.start)

	switch {
	case p <= e.smallLimit:
		e.small.addSievingPrime(p, first, e.segmentLow)
	case p <= e.mediumLimit:
		e.medium.addSievingPrime(p, first, e.segmentLow)
	default:
		return e.big.addSievingPrime(p, first, e.segmentLow)
	}
	return nil
}

// firstMultiple returns the smallest multiple of p, coprime to
// 2, 3 and 5, that is both >= p*p and >= the true scan start. Below
// p*p every composite multiple of p is already covered by a smaller
// sieving prime.
func firstMultiple(p, start uint64) uint64 {
	threshold := p * p
	if start > threshold {
		threshold = start
	}

	k := threshold / p
	if k*p < threshold {
		k++
	}
	for firstWheelIndexValid(k) == false {
		k++
	}
	return p * k
}

func firstWheelIndexValid(k uint64) bool {
	return residueToWheelIndex[k%NumbersPerByte] >= 0
}

// Finish processes every remaining segment up to stop, publishing each
// one through the onSegment callback. It returns nil once the scan
// completes or the callback asks to stop, or a KindAllocationFailed
// error if EratBig's bucket growth exhausts memory partway through;
// segments already delivered via onSegment are not retracted.
func (e *Engine) Finish() error {
	for !e.finished && !e.stopped {
		if err := e.processSegment(); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) processSegment() error {
	sieveSize := e.sieveSize
	last := e.segmentHigh > e.stop
	if last {
		sieveSize = e.finalSieveSize()
	}

	sieve := e.sieve[:sieveSize]
	e.preSieve.Apply(sieve, e.segmentLow)

	if e.firstSegment {
		if e.start <= uint64(e.preSieveLimit) {
			sieve[0] = 0xff
		}
		for b, v := range bitValue {
			if e.segmentLow+uint64(v) < e.start {
				sieve[0] &^= 1 << b
			}
		}
		e.firstSegment = false
	}

	e.small.crossOff(sieve, e.segmentLow, sieveSize)
	e.medium.crossOff(sieve, e.segmentLow, sieveSize)
	if err := e.big.crossOff(sieve); err != nil {
		return err
	}

	if last {
		e.maskTail(sieve)
	}

	cont := e.onSegment(sieve, e.segmentLow)

	if last {
		e.finished = true
		return nil
	}
	if !cont {
		e.stopped = true
		return nil
	}

	e.segmentLow += uint64(e.sieveSize) * NumbersPerByte
	e.segmentHigh += uint64(e.sieveSize) * NumbersPerByte
	return nil
}

// finalSieveSize shrinks the segment buffer so it covers exactly up to
// stop: the last representable number <= stop determines how many
// whole bytes are needed, walking down to the nearest wheel-coprime
// residue if stop itself isn't one. Residue 0 (stop a multiple of 30)
// is exactly as invalid as residue 1 handled elsewhere via
// byteRemainder, so the walk must not stop just because r reached 0.
func (e *Engine) finalSieveSize() int {
	d := e.stop - e.segmentLow
	r := d % NumbersPerByte
	for residueToWheelIndex[r] < 0 {
		d--
		r = d % NumbersPerByte
	}
	idx, _ := byteAndBit(d)
	size := int(idx) + 1
	if size < 1 {
		size = 1
	}
	if size > e.sieveSize {
		size = e.sieveSize
	}
	return size
}

// maskTail clears every bit above stop in the last byte, then zeroes
// any trailing bytes up to the next 8-byte boundary within the
// buffer's backing capacity, mirroring
// original_source/src/soe/SieveOfEratosthenes.cpp's finish() so that
// word-at-a-time bit scanners in consumers never read stale bits left
// over from a previous, larger segment.
func (e *Engine) maskTail(sieve []byte) {
	if len(sieve) == 0 {
		return
	}
	last := len(sieve) - 1
	// Measure stop from the last byte's own 30-aligned base: when
	// finalSieveSize walked down to residue 1 the last byte ends below
	// stop's own byte, rem exceeds 31 and nothing is cleared.
	rem := e.stop - (e.segmentLow + uint64(last)*NumbersPerByte)
	for b, v := range bitValue {
		if uint64(v) > rem {
			sieve[last] &^= 0xff << uint(b)
			break
		}
	}

	full := sieve[:cap(sieve)]
	for j := len(sieve); j%8 != 0; j++ {
		full[j] = 0
	}
}
