package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type target struct {
	capacity int
	name     string
	calls    []string
}

func withCapacity(n int) Option[*target] {
	return func(t *target) error {
		if n <= 0 {
			return errors.New("capacity must be positive")
		}
		t.capacity = n
		t.calls = append(t.calls, "capacity")

		return nil
	}
}

func withName(name string) Option[*target] {
	return NoError(func(t *target) {
		t.name = name
		t.calls = append(t.calls, "name")
	})
}

func TestApply(t *testing.T) {
	tg := &target{}
	require.NoError(t, Apply(tg, withName("d1"), nil, withCapacity(8)))
	require.Equal(t, 8, tg.capacity)
	require.Equal(t, "d1", tg.name)
	require.Equal(t, []string{"name", "capacity"}, tg.calls)
}

func TestApply_StopsAtFirstError(t *testing.T) {
	tg := &target{}
	err := Apply(tg, withCapacity(0), withName("skipped"))
	require.EqualError(t, err, "capacity must be positive")
	require.Empty(t, tg.name)
	require.Empty(t, tg.calls)
}

func TestApply_NoOptions(t *testing.T) {
	tg := &target{capacity: 3}
	require.NoError(t, Apply(tg))
	require.Equal(t, 3, tg.capacity)
}
