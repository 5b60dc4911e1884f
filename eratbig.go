package erato

// bigChunkCapacity is the number of descriptors packed into one
// arena-allocated chunk. Chunks are recycled through a free list so
// that pushing a prime into a future bucket almost never allocates.
const bigChunkCapacity = 1024

// bigDescriptor is a sieving prime waiting in a bucket for a future
// segment. p fits uint32 because every sieving prime is <= sqrt(stop)
// and MaxStop keeps sqrt(stop) below 2^32; offset is the byte offset
// of the next multiple within whichever segment the bucket holding it
// represents.
type bigDescriptor struct {
	p        uint32
	wheelIdx uint8
	offset   uint32
}

// bigChunk is a fixed-capacity, singly-linked node of descriptors.
type bigChunk struct {
	items [bigChunkCapacity]bigDescriptor
	n     int
	next  *bigChunk
}

// eratBig crosses off multiples of primes p > sieveSize*FactorEratMedium,
// each of which has zero or one multiple per segment. Rather than the
// fixed-size ring of buckets the original C++ implementation uses (sized
// for a bounded look-ahead), descriptors are bucketed by their
// absolute target segment index in a map: a sieving prime whose square
// lands far beyond the segment it was added in — routine when start is
// small and stop is enormous — would need a ring many gigabytes wide,
// while the sparse map only ever holds entries for segments that
// actually have work.
type eratBig struct {
	sieveSize   int
	segmentSpan uint64
	current     uint64
	buckets     map[uint64]*bigChunk
	free        *bigChunk
}

func newEratBig(sieveSize int) *eratBig {
	return &eratBig{
		sieveSize:   sieveSize,
		segmentSpan: uint64(sieveSize) * NumbersPerByte,
		buckets:     make(map[uint64]*bigChunk),
	}
}

// bigChunkAllocator is indirected only so tests can inject a panicking
// allocator to exercise alloc's recover path deterministically.
var bigChunkAllocator = func() *bigChunk { return &bigChunk{} }

// alloc returns a bucket chunk, recycling the free list before
// reaching for a fresh one. A fresh allocation is wrapped in recover so
// that exhausting memory here surfaces as KindAllocationFailed rather
// than crashing the process, per spec §7's bucket-chunk allocation
// site.
func (eb *eratBig) alloc() (c *bigChunk, err error) {
	if eb.free != nil {
		c = eb.free
		eb.free = c.next
		c.n = 0
		c.next = nil
		return c, nil
	}
	defer func() {
		if r := recover(); r != nil {
			c = nil
			err = newError(KindAllocationFailed, "allocate bucket chunk: %v", r)
		}
	}()
	return bigChunkAllocator(), nil
}

func (eb *eratBig) release(c *bigChunk) {
	c.next = eb.free
	eb.free = c
}

func (eb *eratBig) push(segmentIdx uint64, d bigDescriptor) error {
	head := eb.buckets[segmentIdx]
	if head == nil || head.n == bigChunkCapacity {
		c, err := eb.alloc()
		if err != nil {
			return err
		}
		c.next = head
		head = c
		eb.buckets[segmentIdx] = head
	}
	head.items[head.n] = d
	head.n++
	return nil
}

// schedule buckets a descriptor whose next multiple is delta numbers
// past base's segment, resolving delta into an absolute segment index
// and a local offset within it.
//
// A delta landing on residue 1 (delta % segmentSpan == 1) names the
// wheel-30 sentinel that byteAndBit always resolves into the
// *previous* byte's bit 7, not a byte of its own; naively bucketing it
// under the segment delta nominally falls in would hand crossOff an
// offset of 1, which byteAndBit turns into byteIdx-1 = -1, an
// out-of-range index into that segment's own buffer. Such a delta
// really belongs to the segment before it, at local offset
// segmentSpan+1 — exactly the sentinel value eratSmall/eratMedium's
// maxDelta-inclusive loop crosses off as part of the *departing*
// segment, one byte past its otherwise-last one.
func (eb *eratBig) schedule(base, delta uint64, p uint32, wheelIdx uint8) error {
	segAhead := delta / eb.segmentSpan
	offset := delta % eb.segmentSpan
	if offset == 1 {
		segAhead--
		offset = eb.segmentSpan + 1
	}
	return eb.push(base+segAhead, bigDescriptor{p: p, wheelIdx: wheelIdx, offset: uint32(offset)})
}

// addSievingPrime places p into whichever future bucket its first
// crossable multiple, firstMultiple, falls into. segmentLow is the low
// bound of the segment currently about to be processed. wheelIdx seeds
// the phase of firstMultiple/p, the coprime multiplier, not of
// firstMultiple itself; see eratsmall.addSievingPrime.
func (eb *eratBig) addSievingPrime(p, firstMultiple, segmentLow uint64) error {
	delta := firstMultiple - segmentLow
	return eb.schedule(eb.current, delta, uint32(p), firstWheelIndex(firstMultiple/p))
}

// crossOff clears the bit for every descriptor whose next multiple
// falls in the segment currently being processed, then re-buckets each
// one for its next multiple and advances the current segment index by
// one. The
// bucket for the segment just processed is always empty afterward.
//
// If re-bucketing a descriptor needs a fresh chunk and allocation
// fails, crossOff returns immediately with a KindAllocationFailed
// error and leaves the remaining chunks in this segment's chain
// unreleased; the scan is terminating anyway, per spec §7.
func (eb *eratBig) crossOff(sieve []byte) error {
	s := sieve[:eb.sieveSize]
	chain := eb.buckets[eb.current]
	delete(eb.buckets, eb.current)

	for c := chain; c != nil; {
		for i := 0; i < c.n; i++ {
			d := &c.items[i]
			byteIdx, bit := byteAndBit(uint64(d.offset))
			s[byteIdx] &^= 1 << bit

			p := uint64(d.p)
			next := uint64(d.offset) + p*uint64(wheelGap[d.wheelIdx])
			w := (d.wheelIdx + 1) & 7

			if err := eb.schedule(eb.current, next, d.p, w); err != nil {
				return err
			}
		}
		next := c.next
		eb.release(c)
		c = next
	}

	eb.current++
	return nil
}
