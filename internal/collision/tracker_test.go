package collision

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tsmodel/errs"
)

func TestTracker_Track(t *testing.T) {
	tr := NewTracker()
	require.Equal(t, 0, tr.Count())

	require.NoError(t, tr.Track("root.d1.s1", 0x1234567890abcdef))
	require.NoError(t, tr.Track("root.d1.s2", 0xfedcba0987654321))
	require.Equal(t, 2, tr.Count())
	require.Equal(t, []string{"root.d1.s1", "root.d1.s2"}, tr.Paths())

	p, ok := tr.Lookup(0xfedcba0987654321)
	require.True(t, ok)
	require.Equal(t, "root.d1.s2", p)

	_, ok = tr.Lookup(1)
	require.False(t, ok)
}

func TestTracker_Errors(t *testing.T) {
	tr := NewTracker()

	require.ErrorIs(t, tr.Track("", 1), errs.ErrInvalidArgument)

	require.NoError(t, tr.Track("root.d1.s1", 42))
	require.ErrorIs(t, tr.Track("root.d1.s1", 42), errs.ErrAlreadyExists)
	require.ErrorIs(t, tr.Track("root.d1.other", 42), errs.ErrMetadataInconsistency)
	require.Equal(t, 1, tr.Count())
}

func TestTracker_Reset(t *testing.T) {
	tr := NewTracker()
	require.NoError(t, tr.Track("a.b", 7))
	tr.Reset()

	require.Equal(t, 0, tr.Count())
	require.Empty(t, tr.Paths())
	require.NoError(t, tr.Track("a.b", 7))
}
