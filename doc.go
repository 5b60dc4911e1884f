// Package erato implements the core of a segmented sieve of
// Eratosthenes: a cache-aware, wheel-30 bit-packed engine that
// enumerates primes in a closed interval [start, stop] of 64-bit
// unsigned integers.
//
// The package deliberately stops at the sieving kernel. Computing
// sqrt(stop), generating the sieving primes themselves, choosing a
// sieve size from the CPU cache probe, driving multiple engines in
// parallel, and turning published bitmaps into a printed or persisted
// list of primes are all the job of a caller; see cpuinfo for the
// cache probe and internal/refsieve for a minimal bootstrap used by
// this package's own tests.
package erato
