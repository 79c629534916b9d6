package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLocation(t *testing.T) {
	require.NotNil(t, Location)

	_, offset := time.Date(2024, 3, 1, 12, 0, 0, 0, Location).Zone()
	require.Equal(t, 4*60*60, offset)
}

func TestNow(t *testing.T) {
	now := Now()
	require.Equal(t, Location, now.Location())
}
