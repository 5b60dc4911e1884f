// Package bench drives erato.Engine across a wide range by splitting
// it into fixed-size chunks and running one Engine per chunk on a pool
// of goroutines. It is adapted from
// jannismilz-primes/strong_goldbach/main.go's processChunks/get_chunks
// pair, generalized from that program's Goldbach-checking payload to
// counting primes per chunk, and from a fixed worker count to one
// sized off cpuinfo.Info.PhysicalCores.
package bench

import (
	"fmt"
	"log"
	"sync"

	"erato"
	"erato/cpuinfo"
	"erato/internal/refsieve"
)

// Config controls one ranged scan. ChunkSize and SieveSizeKB both fall
// back to sane defaults when left zero.
type Config struct {
	Start         uint64
	Stop          uint64
	ChunkSize     uint64
	SieveSizeKB   int
	PreSieveLimit uint32
	Workers       int
}

// ChunkResult is one chunk's outcome: how many primes it held and the
// wall-clock-independent count of segments the Engine emitted.
type ChunkResult struct {
	Start, Stop uint64
	PrimeCount  uint64
	Segments    int
}

// Run partitions [cfg.Start, cfg.Stop] into chunks of cfg.ChunkSize and
// counts the primes in each chunk concurrently, logging progress the
// way the original processChunks did with fmt.Printf per completed
// chunk.
func Run(cfg Config) ([]ChunkResult, error) {
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = 100_000_000
	}
	if cfg.SieveSizeKB == 0 {
		cfg.SieveSizeKB = cpuinfo.Detect().RecommendedSieveSizeKB()
	}
	if cfg.PreSieveLimit == 0 {
		cfg.PreSieveLimit = 19
	}
	if cfg.Workers <= 0 {
		cfg.Workers = cpuinfo.Detect().PhysicalCores
		if cfg.Workers <= 0 {
			cfg.Workers = 1
		}
	}

	chunks := chunkRanges(cfg.Start, cfg.Stop, cfg.ChunkSize)
	log.Printf("bench: processing %d chunks of size %d across %d workers", len(chunks), cfg.ChunkSize, cfg.Workers)

	chunkChan := make(chan [2]uint64, len(chunks))
	for _, c := range chunks {
		chunkChan <- c
	}
	close(chunkChan)

	resultChan := make(chan ChunkResult, len(chunks))
	errChan := make(chan error, len(chunks))

	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range chunkChan {
				result, err := processChunk(c[0], c[1], cfg.SieveSizeKB, cfg.PreSieveLimit)
				if err != nil {
					errChan <- err
					continue
				}
				resultChan <- result
				fmt.Printf("bench: chunk [%d, %d] found %d primes in %d segments\n",
					result.Start, result.Stop, result.PrimeCount, result.Segments)
			}
		}()
	}

	wg.Wait()
	close(resultChan)
	close(errChan)

	if err := <-errChan; err != nil {
		return nil, err
	}

	results := make([]ChunkResult, 0, len(chunks))
	for r := range resultChan {
		results = append(results, r)
	}
	return results, nil
}

func chunkRanges(start, stop, size uint64) [][2]uint64 {
	var chunks [][2]uint64
	for s := start; s <= stop; s += size {
		e := s + size - 1
		if e > stop {
			e = stop
		}
		chunks = append(chunks, [2]uint64{s, e})
	}
	return chunks
}

func processChunk(start, stop uint64, sieveSizeKB int, preSieveLimit uint32) (ChunkResult, error) {
	sqrtStop := isqrtBench(stop)
	sievingPrimes := refsieve.UpTo(sqrtStop)

	var count uint64
	segments := 0

	engine, err := erato.NewEngine(start, stop, sieveSizeKB, preSieveLimit, func(bitmap []byte, segmentLow uint64) bool {
		segments++
		for _, b := range bitmap {
			count += uint64(popcount8(b))
		}
		return true
	})
	if err != nil {
		return ChunkResult{}, err
	}

	for _, p := range sievingPrimes {
		if p <= uint64(engine.PreSieveLimit()) || p > engine.SqrtStop() {
			continue
		}
		if err := engine.AddSievingPrime(p); err != nil {
			return ChunkResult{}, err
		}
	}

	if err := engine.Finish(); err != nil {
		return ChunkResult{}, err
	}

	return ChunkResult{Start: start, Stop: stop, PrimeCount: count, Segments: segments}, nil
}

func popcount8(b byte) int {
	n := 0
	for b != 0 {
		n += int(b & 1)
		b >>= 1
	}
	return n
}

func isqrtBench(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}
