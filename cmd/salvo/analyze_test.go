package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCLI(t *testing.T, args ...string) (stdout, stderr string) {
	t.Helper()
	t.Setenv("SALVO_STORAGE_PATH", t.TempDir())
	t.Setenv("SALVO_SEED", "3")
	var out, errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	require.NoError(t, root.Execute(), errOut.String())
	return out.String(), errOut.String()
}

func TestAnalyzeRows(t *testing.T) {
	out, _ := runCLI(t, "analyze", "--preset", "tiny", "--rows", "----,-X--,----,--O-", "--strategy", "improved")
	assert.Contains(t, out, "target row 0 col 1")
	assert.Contains(t, out, "improved")
}

func TestAnalyzeRandomJSON(t *testing.T) {
	out, errOut := runCLI(t, "analyze", "--preset", "mini", "--random", "--seed", "5", "--shots", "6", "--strategy", "gain", "--json")
	assert.Contains(t, errOut, "seed 5, 6 shots")

	var rec struct {
		Strategy string `json:"strategy"`
		Target   struct {
			Row int `json:"row"`
			Col int `json:"col"`
		} `json:"target"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rec))
	assert.Equal(t, "gain", rec.Strategy)
	assert.Less(t, rec.Target.Row, 5)
}

func TestAnalyzeSaveThenLoad(t *testing.T) {
	t.Setenv("SALVO_STORAGE_PATH", t.TempDir())
	var errOut bytes.Buffer
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&errOut)
	root.SetArgs([]string{"analyze", "--preset", "tiny", "--strategy", "basic", "--save", "empty"})
	require.NoError(t, root.Execute())
	require.Contains(t, errOut.String(), "saved ")
	id := string(bytes.TrimSpace(bytes.TrimPrefix(errOut.Bytes(), []byte("saved "))))

	var out bytes.Buffer
	root = newRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--load", id, "--strategy", "basic"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "target row")
}

func TestAnalyzeRejectsConflictingSources(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"analyze", "--rows", "--,--", "--random"})
	assert.Error(t, root.Execute())
}
