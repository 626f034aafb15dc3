package main

import (
	"fmt"
	"testing"

	"platdiag/internal/drm"

	"github.com/stretchr/testify/assert"
)

func TestGbmtestCmd_NoDevice(t *testing.T) {
	orig := openDevice
	openDevice = func() (*drm.Device, error) {
		return nil, fmt.Errorf("no usable DRM node")
	}
	t.Cleanup(func() { openDevice = orig })

	_, err := executeCommand(rootCmd, "gbmtest")
	assert.ErrorContains(t, err, "gbmtest")
	assert.ErrorContains(t, err, "no usable DRM node")
}
