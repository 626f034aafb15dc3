package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	Load("")

	assert.Equal(t, ".platdiag/history.db", viper.GetString("history.path"))
	assert.Equal(t, 20, viper.GetInt("hackbench.fds_per_group"))
	assert.Equal(t, 100, viper.GetInt("hackbench.datasize"))
	assert.Equal(t, 512, viper.GetInt("glbench.width"))
	assert.Equal(t, ":2112", viper.GetString("monitor.listen"))
}

func TestLoad_EnvOverride(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("PLATDIAG_HACKBENCH_DATASIZE", "256")
	Load("")

	assert.Equal(t, 256, viper.GetInt("hackbench.datasize"))
}

func TestLoad_ConfigFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hackbench:\n  fds_per_group: 8\n"), 0644))

	Load(path)

	assert.Equal(t, 8, viper.GetInt("hackbench.fds_per_group"))
	// Untouched keys keep their defaults.
	assert.Equal(t, 100, viper.GetInt("hackbench.datasize"))
}
