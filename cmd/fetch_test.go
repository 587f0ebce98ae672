package cmd

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/repoforge/repoctl/internal/cmd"
	"github.com/repoforge/repoctl/internal/flags"
)

func newRemoteRepo(t *testing.T) *httptest.Server {
	t.Helper()

	index := "Package: com.example.foo\nFilename: ./debs/com.example.foo_1.0_arm.deb\n\n" +
		"Package: com.example.bar\nFilename: ./debs/com.example.bar_2.0_arm.deb\n"

	mux := http.NewServeMux()
	mux.HandleFunc("/Packages", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(index))
	})
	mux.HandleFunc("/debs/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("deb " + filepath.Base(r.URL.Path)))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return srv
}

func pointConfigAt(t *testing.T, path string) {
	t.Helper()

	prev := flags.ConfigFile
	flags.ConfigFile = path
	t.Cleanup(func() {
		flags.ConfigFile = prev
	})
}

func TestFetchCmd_DownloadsIndexedArchives(t *testing.T) {
	srv := newRemoteRepo(t)
	dest := filepath.Join(t.TempDir(), "debs")
	pointConfigAt(t, filepath.Join(t.TempDir(), "missing.toml"))

	cmdObj, err := NewFetchCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"--base-url", srv.URL, "--dest", dest, "--retries", "0"})
	require.NoError(t, cmdObj.Execute())

	assert.Contains(t, buf.String(), "lists 2 archive(s)")
	assert.Contains(t, buf.String(), "✓ Downloaded 2, skipped 0, failed 0")

	data, err := os.ReadFile(filepath.Join(dest, "com.example.foo_1.0_arm.deb"))
	require.NoError(t, err)
	assert.Equal(t, "deb com.example.foo_1.0_arm.deb", string(data))
}

func TestFetchCmd_SkipExisting(t *testing.T) {
	srv := newRemoteRepo(t)
	dest := filepath.Join(t.TempDir(), "debs")
	require.NoError(t, os.MkdirAll(dest, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dest, "com.example.foo_1.0_arm.deb"), []byte("kept"), 0o644))
	pointConfigAt(t, filepath.Join(t.TempDir(), "missing.toml"))

	cmdObj, err := NewFetchCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"--base-url", srv.URL, "--dest", dest, "--retries", "0"})
	require.NoError(t, cmdObj.Execute())

	assert.Contains(t, buf.String(), "✓ Downloaded 1, skipped 1, failed 0")

	data, err := os.ReadFile(filepath.Join(dest, "com.example.foo_1.0_arm.deb"))
	require.NoError(t, err)
	assert.Equal(t, "kept", string(data))
}

func TestFetchCmd_BaseURLFromConfig(t *testing.T) {
	srv := newRemoteRepo(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, ".repoctl.toml")
	cfgContent := "debs_dir = \"debs\"\nbase_url = \"" + srv.URL + "\"\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfgContent), 0o644))
	pointConfigAt(t, cfgPath)

	cmdObj, err := NewFetchCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	buf := new(bytes.Buffer)
	cmdObj.SetOut(buf)
	cmdObj.SetArgs([]string{"--retries", "0"})
	require.NoError(t, cmdObj.Execute())

	assert.Contains(t, buf.String(), "✓ Downloaded 2")

	_, err = os.Stat(filepath.Join(dir, "debs", "com.example.bar_2.0_arm.deb"))
	assert.NoError(t, err)
}

func TestFetchCmd_RequiresRemote(t *testing.T) {
	pointConfigAt(t, filepath.Join(t.TempDir(), "missing.toml"))

	cmdObj, err := NewFetchCmd(&cmd.BaseCmd{})
	require.NoError(t, err)

	cmdObj.SetOut(new(bytes.Buffer))
	cmdObj.SetErr(new(bytes.Buffer))
	cmdObj.SetArgs([]string{})
	err = cmdObj.Execute()
	require.Error(t, err)
	require.ErrorContains(t, err, "--base-url")
}
