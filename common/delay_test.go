package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDelay(t *testing.T) {
	d := NewDelay(100 * time.Millisecond)
	require.False(t, d.Ended())
	require.Zero(t, d.SinceEnded())

	d.Update(60 * time.Millisecond)
	require.False(t, d.Ended())
	require.Equal(t, 40*time.Millisecond, d.Remaining())

	d.Update(40 * time.Millisecond)
	require.True(t, d.Ended())
	require.Zero(t, d.SinceEnded())

	d.Update(25 * time.Millisecond)
	require.True(t, d.Ended())
	require.Equal(t, 25*time.Millisecond, d.SinceEnded())
	require.Equal(t, -25*time.Millisecond, d.Remaining())
	require.Equal(t, 100*time.Millisecond, d.Timeout())
}
