package cmd

import (
	"bytes"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersionOutput(t *testing.T) {
	savedVersion, savedCommit := Version, Commit
	t.Cleanup(func() { Version, Commit = savedVersion, savedCommit })

	Version, Commit = "1.2.0", "4f1c2e9"

	var buf bytes.Buffer
	versionCmd.SetOut(&buf)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	runVersion(versionCmd, nil)

	out := buf.String()
	assert.Contains(t, out, "hercules 1.2.0 (4f1c2e9)")
	assert.Contains(t, out, runtime.Version())
	assert.Contains(t, out, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, out, "sqlserver")
	assert.Contains(t, out, "Formats: text, json, yaml")
}

func TestBuildRevision_UnknownCommit(t *testing.T) {
	saved := Commit
	t.Cleanup(func() { Commit = saved })

	Commit = "unknown"
	assert.NotEmpty(t, buildRevision())

	Commit = "abc1234"
	assert.Equal(t, "abc1234", buildRevision())
}
