// Package cpuinfo reports cache sizes used to pick a default segment
// size for erato.Engine. It wraps github.com/klauspost/cpuid/v2, the
// same library the original strong_goldbach benchmark queries for
// CPU.BrandName, CPU.Hz and CPU.PhysicalCores when sizing its worker
// pool.
//
// The original C++ implementation exposes this through a process-wide
// CpuInfo singleton, probing OS-specific files and syscalls itself
// (see original_source/src/primesieve/CpuInfo.cpp). klauspost/cpuid
// already does that probing portably, so Info is a plain value built
// once from the detected CPU rather than a singleton: callers that
// want one shared instance can build it once and pass it around, and
// tests can construct Info values directly without touching real
// hardware state.
package cpuinfo

import "github.com/klauspost/cpuid/v2"

// Info holds the cache sizes, in bytes, of one CPU. A zero-value field
// means that cache level could not be detected.
type Info struct {
	L1DataCacheSize int
	L2CacheSize     int
	L3CacheSize     int
	PhysicalCores   int
	BrandName       string
}

// Detect probes the running CPU via klauspost/cpuid/v2.
func Detect() Info {
	c := cpuid.CPU
	return Info{
		L1DataCacheSize: c.Cache.L1D,
		L2CacheSize:     c.Cache.L2,
		L3CacheSize:     c.Cache.L3,
		PhysicalCores:   c.PhysicalCores,
		BrandName:       c.BrandName,
	}
}

// HasL2Cache reports whether a plausible L2 cache size was detected,
// mirroring the sanity range the original CpuInfo::hasL2Cache uses:
// between 4 KiB and 1 GiB.
func (i Info) HasL2Cache() bool {
	return i.L2CacheSize >= 1<<12 && i.L2CacheSize <= 1<<30
}

// HasL3Cache reports whether a plausible L3 cache size was detected,
// between 64 KiB and 1 TiB.
func (i Info) HasL3Cache() bool {
	return i.L3CacheSize >= 1<<16 && i.L3CacheSize <= 1<<40
}

// RecommendedSieveSizeKB returns the segment size, in KiB, that keeps
// a segment resident in the cache level primesieve's tuning favors:
// half of L2 when a private L2 is available, else half of L1, else a
// conservative 32 KiB fallback. The result is not yet clamped or
// rounded to a power of two; erato.NewEngine does that.
func (i Info) RecommendedSieveSizeKB() int {
	switch {
	case i.HasL2Cache():
		return i.L2CacheSize / 2 / 1024
	case i.L1DataCacheSize > 0:
		return i.L1DataCacheSize / 2 / 1024
	default:
		return 32
	}
}
