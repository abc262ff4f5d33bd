//go:build integration

package integration

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// getProjectRoot returns the path to the adocref project root
func getProjectRoot() string {
	_, filename, _, _ := runtime.Caller(0)
	// tests/integration/serve_test.go -> project root
	return filepath.Join(filepath.Dir(filename), "..", "..")
}

type response struct {
	Success bool            `json:"success"`
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

// startServe builds adocref and starts "adocref serve" in dir.
func startServe(t *testing.T, dir string) (io.WriteCloser, *bufio.Scanner) {
	t.Helper()
	projectRoot := getProjectRoot()
	binary := filepath.Join(t.TempDir(), "adocref")

	buildCmd := exec.Command("go", "build", "-o", binary, "./cmd/adocref")
	buildCmd.Dir = projectRoot
	output, err := buildCmd.CombinedOutput()
	require.NoError(t, err, "build failed: %s", string(output))

	cmd := exec.Command(binary, "serve")
	cmd.Dir = dir

	stdin, err := cmd.StdinPipe()
	require.NoError(t, err)
	stdout, err := cmd.StdoutPipe()
	require.NoError(t, err)
	require.NoError(t, cmd.Start())

	t.Cleanup(func() {
		stdin.Close()
		cmd.Process.Kill()
		cmd.Wait()
	})
	return stdin, bufio.NewScanner(stdout)
}

func readResponse(t *testing.T, scanner *bufio.Scanner) response {
	t.Helper()
	lines := make(chan string, 1)
	go func() {
		if scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	select {
	case line := <-lines:
		var resp response
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		return resp
	case <-time.After(60 * time.Second):
		t.Fatal("timeout waiting for response")
		return response{}
	}
}

func TestServeIntegration_ReadySignal(t *testing.T) {
	_, scanner := startServe(t, t.TempDir())

	resp := readResponse(t, scanner)
	assert.True(t, resp.Success)
	assert.Equal(t, "ready", resp.Type)

	var ready struct {
		Directives int `json:"directives"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &ready))
	assert.Positive(t, ready.Directives)
}

func TestServeIntegration_CheckMissingInclude(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "present.adoc"), []byte("= Present\n"), 0o644))

	stdin, scanner := startServe(t, dir)
	readResponse(t, scanner) // ready

	payload, err := json.Marshal(map[string]string{
		"content": "include::present.adoc[]\ninclude::absent.adoc[]\n",
		"path":    filepath.Join(dir, "index.adoc"),
	})
	require.NoError(t, err)
	fmt.Fprintf(stdin, `{"type":"check","payload":%s}`+"\n", payload)

	resp := readResponse(t, scanner)
	require.True(t, resp.Success, resp.Error)
	assert.Equal(t, "check", resp.Type)

	var result struct {
		Diagnostics []struct {
			Target string `json:"target"`
		} `json:"diagnostics"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &result))
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "absent.adoc", result.Diagnostics[0].Target)
}

func TestServeIntegration_Close(t *testing.T) {
	stdin, scanner := startServe(t, t.TempDir())
	readResponse(t, scanner) // ready

	fmt.Fprintln(stdin, `{"type":"close"}`)

	done := make(chan bool, 1)
	go func() { done <- scanner.Scan() }()
	select {
	case more := <-done:
		assert.False(t, more, "server should exit without further output")
	case <-time.After(30 * time.Second):
		t.Fatal("server did not exit after close")
	}
}
