package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/I-SHANKAR-NARAYANA/Adobe-Hackathon-1b/internal/testpdf"
)

func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("CACHE_TYPE", "memory")
	return dir
}

func TestRun_Usage(t *testing.T) {
	setup(t)
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"bogus"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage: docintel")
}

func TestRun_OutlineThenValidate(t *testing.T) {
	dir := setup(t)
	in := filepath.Join(dir, "in")
	out := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(in, 0o755))
	testpdf.WriteFile(t, filepath.Join(in, "memo.pdf"), "", testpdf.Join(
		[]testpdf.Line{testpdf.Heading("Quarterly Memo", 18)},
		testpdf.Para("All teams submitted their plans on time this quarter."),
	))

	var stdout, stderr bytes.Buffer
	code := run([]string{"outline", "-input", in, "-output", out, "-log-level", "error"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	written := filepath.Join(out, "memo.json")
	require.FileExists(t, written)

	stdout.Reset()
	assert.Equal(t, 0, run([]string{"validate", "-kind", "outline", written}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "memo.json: ok")

	// An outline is not a valid analysis document.
	stdout.Reset()
	assert.Equal(t, 1, run([]string{"validate", "-kind", "analysis", written}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "memo.json: invalid")
}

func TestRun_AnalyzeMissingInput(t *testing.T) {
	dir := setup(t)
	var stdout, stderr bytes.Buffer
	code := run([]string{"analyze", "-input", filepath.Join(dir, "absent"), "-output", dir}, &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "batch aborted")
}

func TestRun_ValidateErrors(t *testing.T) {
	dir := setup(t)
	var stdout, stderr bytes.Buffer

	assert.Equal(t, 2, run([]string{"validate", "-kind", "outline"}, &stdout, &stderr))
	assert.Equal(t, 2, run([]string{"validate", "-kind", "poem", "x.json"}, &stdout, &stderr))
	assert.Equal(t, 1, run([]string{"validate", filepath.Join(dir, "missing.json")}, &stdout, &stderr))

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"title": "x"}`), 0o644))
	stdout.Reset()
	assert.Equal(t, 1, run([]string{"validate", "-kind", "outline", bad}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "bad.json: invalid")
}
