package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chat-tester/config"

	"github.com/stretchr/testify/assert"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	oldStdout := os.Stdout
	reader, writer, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe() failed: %v", err)
	}
	os.Stdout = writer
	defer func() {
		os.Stdout = oldStdout
	}()

	// A full run logs more than a pipe buffer holds, so drain while fn runs.
	var buffer bytes.Buffer
	copied := make(chan error, 1)
	go func() {
		_, err := io.Copy(&buffer, reader)
		copied <- err
	}()

	fn()

	if err := writer.Close(); err != nil {
		t.Fatalf("writer.Close() failed: %v", err)
	}
	if err := <-copied; err != nil {
		t.Fatalf("io.Copy() failed: %v", err)
	}
	if err := reader.Close(); err != nil {
		t.Fatalf("reader.Close() failed: %v", err)
	}

	return buffer.String()
}

func TestPrintDiagnoseShowsEffectiveLogDir(t *testing.T) {
	output := captureStdout(t, printDiagnose)
	if !strings.Contains(output, "path.effective_log_dir:") {
		t.Fatalf("printDiagnose() output missing effective log dir: %s", output)
	}
	if !strings.Contains(output, "path.log_file:") {
		t.Fatalf("printDiagnose() output missing log file: %s", output)
	}
	if !strings.Contains(output, "Dependency status") {
		t.Fatalf("printDiagnose() output missing dependency report: %s", output)
	}
}

func TestExecuteVersion(t *testing.T) {
	var code int
	output := captureStdout(t, func() {
		code = execute([]string{"--version"})
	})
	assert.Equal(t, exitPassed, code)
	assert.Contains(t, output, "version: dev")
	assert.NotContains(t, output, "runtime:")
}

func TestExecuteDiagnoseWithCustomConfig(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "custom.toml")
	config.Conf = config.Default()

	var code int
	output := captureStdout(t, func() {
		code = execute([]string{"--version", "--diagnose", "--config", configPath})
	})
	assert.Equal(t, exitPassed, code)
	assert.Contains(t, output, "path.config: "+configPath+" (missing)")
	assert.Contains(t, output, "server.base_url: http://localhost:8080")

	_, err := os.Stat(configPath)
	assert.True(t, os.IsNotExist(err), "diagnose must not write a config file")
}

func TestExecuteRejectsBadInvocations(t *testing.T) {
	assert.Equal(t, exitAborted, execute([]string{"--no-such-flag"}))
	assert.Equal(t, exitAborted, execute([]string{"extra"}))
}
