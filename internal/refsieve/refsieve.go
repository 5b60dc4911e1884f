// Package refsieve is a deliberately naive prime sieve used only by
// erato's tests and the internal/bench harness, to check the segmented, wheel-factorized engine
// against a straightforward reference. It is grounded in
// jannismilz-primes/strong_goldbach/main.go's sieve_50k and
// sieve_between helpers, generalized to uint64 and to an arbitrary
// [start, stop] window.
package refsieve

import "math/bits"

// UpTo returns every prime in [2, limit] using a plain, unsegmented
// sieve of Eratosthenes. It exists to seed sieving primes for Between
// and is not meant to scale past a few million.
func UpTo(limit uint64) []uint64 {
	if limit < 2 {
		return nil
	}
	isComposite := make([]bool, limit+1)
	var primes []uint64
	for n := uint64(2); n <= limit; n++ {
		if isComposite[n] {
			continue
		}
		primes = append(primes, n)
		if n > limit/n {
			continue
		}
		for m := n * n; m <= limit; m += n {
			isComposite[m] = true
		}
	}
	return primes
}

// Between returns every prime in [start, stop] by crossing off the
// multiples of every prime up to sqrt(stop) in a plain bool slice that
// holds the whole window, mirroring sieve_between's windowed approach.
func Between(start, stop uint64) []uint64 {
	if start > stop {
		return nil
	}
	if start < 2 {
		start = 2
	}

	sqrtStop := isqrt(stop)
	base := UpTo(sqrtStop)

	size := stop - start + 1
	isComposite := make([]bool, size)

	for _, p := range base {
		first := p * p
		if first < start {
			first = ((start + p - 1) / p) * p
		}
		for m := first; m <= stop; m += p {
			if m == p {
				continue
			}
			isComposite[m-start] = true
		}
	}

	var primes []uint64
	for n := start; n <= stop; n++ {
		if n < 2 {
			continue
		}
		if !isComposite[n-start] {
			primes = append(primes, n)
		}
	}
	return primes
}

// Count returns len(Between(start, stop)), useful for comparing against
// a bitmap popcount.
func Count(start, stop uint64) int {
	return len(Between(start, stop))
}

// PopCount sums the set bits across a run of segment bitmaps produced
// by erato, letting tests compare a raw bit count against
// len(Between(...)) without decoding individual primes.
func PopCount(segments [][]byte) int {
	total := 0
	for _, seg := range segments {
		for _, b := range seg {
			total += bits.OnesCount8(b)
		}
	}
	return total
}

func isqrt(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := uint64(1) << ((bits.Len64(n) + 1) / 2)
	for {
		y := (x + n/x) / 2
		if y >= x {
			break
		}
		x = y
	}
	for x > 0 && x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
