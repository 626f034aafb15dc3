package main

import (
	"regexp"
	"testing"

	"platdiag/internal/fanout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHackbenchArgs(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := parseHackbenchArgs(nil, 20, 100)
		require.NoError(t, err)
		assert.Equal(t, 10, cfg.Groups)
		assert.Equal(t, 20, cfg.FDsPerGroup)
		assert.Equal(t, 100, cfg.Loops)
		assert.Equal(t, 100, cfg.DataSize)
		assert.Equal(t, fanout.ModeProcess, cfg.Mode)
		assert.False(t, cfg.UsePipes)
	})

	t.Run("full legacy surface", func(t *testing.T) {
		cfg, err := parseHackbenchArgs([]string{"-pipe", "4", "thread", "250"}, 20, 100)
		require.NoError(t, err)
		assert.True(t, cfg.UsePipes)
		assert.Equal(t, 4, cfg.Groups)
		assert.Equal(t, fanout.ModeThread, cfg.Mode)
		assert.Equal(t, 250, cfg.Loops)
	})

	t.Run("long flags", func(t *testing.T) {
		cfg, err := parseHackbenchArgs([]string{"2", "--fds=5", "--datasize=64"}, 20, 100)
		require.NoError(t, err)
		assert.Equal(t, 5, cfg.FDsPerGroup)
		assert.Equal(t, 64, cfg.DataSize)
	})

	t.Run("malformed", func(t *testing.T) {
		bad := [][]string{
			{"zero"},
			{"0"},
			{"-1"},
			{"2", "fiber"},
			{"2", "thread", "-5"},
			{"2", "thread", "10", "extra"},
			{"2", "-pipe"},
			{"--bogus"},
			{"--fds=0"},
			{"--datasize=x"},
		}
		for _, args := range bad {
			_, err := parseHackbenchArgs(args, 20, 100)
			assert.Error(t, err, "args %v", args)
		}
	})

	t.Run("help", func(t *testing.T) {
		_, err := parseHackbenchArgs([]string{"--help"}, 20, 100)
		assert.Equal(t, errHackbenchHelp, err)
	})
}

func TestHackbenchCmd_ThreadMode(t *testing.T) {
	out, err := executeCommand(rootCmd, "hackbench", "2", "thread", "5", "--fds=2", "--datasize=16")
	require.NoError(t, err)

	assert.Contains(t, out, "Running with 2*4 (== 8) tasks.")
	assert.Regexp(t, regexp.MustCompile(`Time: \d+\.\d{3}`), out)
}

func TestHackbenchCmd_PipeThreadMode(t *testing.T) {
	out, err := executeCommand(rootCmd, "hackbench", "-pipe", "1", "thread", "1", "--fds=1")
	require.NoError(t, err)
	assert.Contains(t, out, "Running with 1*2 (== 2) tasks.")
}

func TestHackbenchCmd_BadArgs(t *testing.T) {
	_, err := executeCommand(rootCmd, "hackbench", "nonsense")
	assert.Error(t, err)
}
