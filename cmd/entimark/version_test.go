package main

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunVersion(t *testing.T) {
	versionJSON = false
	cmd, stdout, _ := newTestCmd()

	err := runVersion(cmd, []string{})
	require.NoError(t, err)

	output := stdout.String()
	assert.Contains(t, output, "Entimark v"+version)
	assert.Contains(t, output, "Commit:")
	assert.Contains(t, output, "Protocol:   1.0.0")
	assert.Contains(t, output, "Platform:   "+runtime.GOOS+"/"+runtime.GOARCH)
}

func TestRunVersion_JSON(t *testing.T) {
	versionJSON = true
	t.Cleanup(func() { versionJSON = false })
	cmd, stdout, _ := newTestCmd()

	require.NoError(t, runVersion(cmd, nil))

	var info buildInfo
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &info))
	assert.Equal(t, version, info.Version)
	assert.Equal(t, "1.0.0", info.Protocol)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Commit)
}
