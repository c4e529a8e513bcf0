package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	require.Positive(t, cfg.URI.RequestLineSize.Maximal)
	require.LessOrEqual(t, cfg.URI.RequestLineSize.Default, cfg.URI.RequestLineSize.Maximal)
	require.Positive(t, cfg.Headers.Space.Maximal)
	require.LessOrEqual(t, cfg.Headers.Space.Default, cfg.Headers.Space.Maximal)
	require.Positive(t, cfg.Headers.MaxNumber)
	require.Positive(t, cfg.NET.ReadBufferSize)
	require.Positive(t, cfg.NET.WriteBufferSize)
	require.Positive(t, cfg.NET.ReadTimeout)
	require.Positive(t, cfg.NET.KeepAliveTimeout)
	require.Positive(t, cfg.NET.DrainDuration)
	require.Positive(t, cfg.Body.DrainBound)
}
