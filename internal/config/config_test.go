package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"roundhold/internal/balance"
)

func TestDefaultMatchesBalanceConstants(t *testing.T) {
	cfg := Default()
	require.Equal(t, balance.DefaultHost, cfg.Host)
	require.Equal(t, balance.DefaultPort, cfg.Port)
	require.Equal(t, balance.DefaultWorkerPool, cfg.WorkerPoolSize)
	require.Equal(t, balance.TickRate, cfg.TickRate)
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("ROUNDHOLD_HOST", "127.0.0.1")
	t.Setenv("ROUNDHOLD_PORT", "9999")
	t.Setenv("ROUNDHOLD_WORKER_POOL", "4")
	t.Setenv("ROUNDHOLD_TICK_RATE", "30")
	t.Setenv("ROUNDHOLD_LOG_LEVEL", "debug")
	defer os.Unsetenv("ROUNDHOLD_HOST")

	cfg := Load("this-file-does-not-exist.env")
	require.Equal(t, "127.0.0.1", cfg.Host)
	require.Equal(t, 9999, cfg.Port)
	require.Equal(t, 4, cfg.WorkerPoolSize)
	require.Equal(t, 30, cfg.TickRate)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadIgnoresMissingEnvFile(t *testing.T) {
	cfg := Load("definitely-not-a-real-file.env")
	require.Equal(t, Default().Host, cfg.Host)
}
