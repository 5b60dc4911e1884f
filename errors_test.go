package erato

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// assertKind checks that err is an *Error of the given Kind, the way
// callers are expected to branch on failures from this package.
func assertKind(t *testing.T, err error, kind Kind) {
	t.Helper()
	var e *Error
	require.True(t, errors.As(err, &e), "expected *erato.Error, got %T", err)
	assert.Equal(t, kind, e.Kind)
}

func TestErrorIsMatchesSameKindOnly(t *testing.T) {
	a := newError(KindInvalidRange, "bad range")
	b := newError(KindInvalidRange, "another bad range")
	c := newError(KindStopTooLarge, "too large")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestWrapErrorPreservesCause(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := wrapError(KindAllocationFailed, cause)

	assert.ErrorIs(t, wrapped, cause)
	assertKind(t, wrapped, KindAllocationFailed)
}

func TestKindStringNames(t *testing.T) {
	assert.Equal(t, "invalid_range", KindInvalidRange.String())
	assert.Equal(t, "sieve_size_out_of_bounds", KindSieveSizeOutOfBounds.String())
	assert.Equal(t, "unknown", Kind(999).String())
}
