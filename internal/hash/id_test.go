package hash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestID(t *testing.T) {
	tests := []struct {
		name string
		data string
		id   uint64
	}{
		{"empty string", "", 0xef46db3751d8e999},
		{"short string", "test", 0x4fdcca5ddb678139},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.id, ID(tt.data))
		})
	}
}

func TestSeriesID(t *testing.T) {
	require.Equal(t, "root.sg.d1.s1", SeriesPath("root.sg.d1", "s1"))
	require.Equal(t, ID("root.sg.d1.s1"), SeriesID("root.sg.d1", "s1"))
	require.NotEqual(t, SeriesID("root.sg.d1", "s1"), SeriesID("root.sg.d1", "s2"))
	require.Equal(t, SeriesID("d", "s"), SeriesID("d", "s"))
}
