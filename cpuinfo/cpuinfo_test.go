package cpuinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectReturnsBrandName(t *testing.T) {
	info := Detect()
	assert.NotEmpty(t, info.BrandName)
}

func TestRecommendedSieveSizeKBFallback(t *testing.T) {
	info := Info{}
	assert.Equal(t, 32, info.RecommendedSieveSizeKB())
}

func TestRecommendedSieveSizeKBUsesL2(t *testing.T) {
	info := Info{L2CacheSize: 1 << 20} // 1 MiB
	assert.True(t, info.HasL2Cache())
	assert.Equal(t, 512, info.RecommendedSieveSizeKB())
}

func TestHasL3CacheRange(t *testing.T) {
	assert.False(t, Info{L3CacheSize: 1 << 10}.HasL3Cache())
	assert.True(t, Info{L3CacheSize: 1 << 20}.HasL3Cache())
}
