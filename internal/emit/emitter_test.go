package emit

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarth-shah20/shardcompose/internal/compose"
	"github.com/sarth-shah20/shardcompose/internal/topology"
)

func manifest(t *testing.T, table topology.Table) *compose.Manifest {
	t.Helper()
	m, err := compose.Synthesize(table, compose.DefaultOptions())
	require.NoError(t, err)
	return m
}

func memFs(t *testing.T) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/work", 0755))
	return fs
}

func TestEmit(t *testing.T) {
	ctx := context.Background()
	fs := memFs(t)
	m := manifest(t, topology.Default())

	require.NoError(t, NewEmitter(fs).Emit(ctx, m, "/work/docker-compose.yml", "/work/logs"))

	data, err := afero.ReadFile(fs, "/work/docker-compose.yml")
	require.NoError(t, err)
	expected, err := compose.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, expected, data)

	for _, name := range m.Services.Names() {
		info, err := fs.Stat(filepath.Join("/work/logs", name+".log"))
		require.NoError(t, err, name)
		assert.Zero(t, info.Size())
	}

	entries, err := afero.ReadDir(fs, "/work")
	require.NoError(t, err)
	for _, entry := range entries {
		assert.False(t, strings.HasSuffix(entry.Name(), ".tmp"), "leftover %s", entry.Name())
	}
}

func TestEmitIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fs := memFs(t)
	e := NewEmitter(fs)

	require.NoError(t, e.Emit(ctx, manifest(t, topology.Default()), "/work/docker-compose.yml", "/work/logs"))
	first, err := afero.ReadFile(fs, "/work/docker-compose.yml")
	require.NoError(t, err)

	require.NoError(t, e.Emit(ctx, manifest(t, topology.Default()), "/work/docker-compose.yml", "/work/logs"))
	second, err := afero.ReadFile(fs, "/work/docker-compose.yml")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEmitOverwritesManifest(t *testing.T) {
	ctx := context.Background()
	fs := memFs(t)
	require.NoError(t, afero.WriteFile(fs, "/work/docker-compose.yml", []byte(strings.Repeat("stale\n", 10000)), 0644))

	m := manifest(t, topology.Table{})
	require.NoError(t, NewEmitter(fs).Emit(ctx, m, "/work/docker-compose.yml", "/work/logs"))

	data, err := afero.ReadFile(fs, "/work/docker-compose.yml")
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestEmitRelativeLogDir(t *testing.T) {
	ctx := context.Background()
	fs := memFs(t)
	m := manifest(t, topology.Default())

	require.NoError(t, NewEmitter(fs).Emit(ctx, m, "/work/deploy/docker-compose.yml", "logs"))

	for _, name := range m.Services.Names() {
		_, err := fs.Stat(filepath.Join("/work/deploy/logs", name+".log"))
		assert.NoError(t, err, name)
	}
	_, err := fs.Stat("/work/logs")
	assert.True(t, os.IsNotExist(err))
}

func TestLogDirFor(t *testing.T) {
	assert.Equal(t, "logs", LogDirFor("docker-compose.yml", "logs"))
	assert.Equal(t, "sub/logs", LogDirFor("sub/docker-compose.yml", "logs"))
	assert.Equal(t, "/work/logs", LogDirFor("/work/deploy/docker-compose.yml", "../logs"))
	assert.Equal(t, "/var/log/cluster", LogDirFor("sub/docker-compose.yml", "/var/log/cluster"))
}

func TestEnsureLogFilesKeepsContent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logDir := filepath.Join(dir, "logs")
	require.NoError(t, os.MkdirAll(logDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "node0.log"), []byte("previous run\n"), 0644))

	e := NewEmitter(afero.NewOsFs())
	require.NoError(t, e.EnsureLogFiles(ctx, logDir, []string{"node0", "node1"}))

	data, err := os.ReadFile(filepath.Join(logDir, "node0.log"))
	require.NoError(t, err)
	assert.Equal(t, "previous run\n", string(data))

	info, err := os.Stat(filepath.Join(logDir, "node1.log"))
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestEmitFailureLeavesNoManifest(t *testing.T) {
	ctx := context.Background()

	t.Run("read-only filesystem", func(t *testing.T) {
		fs := afero.NewReadOnlyFs(afero.NewMemMapFs())
		err := NewEmitter(fs).Emit(ctx, manifest(t, topology.Default()), "/work/docker-compose.yml", "/work/logs")
		require.Error(t, err)

		_, statErr := fs.Stat("/work/docker-compose.yml")
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("missing output directory", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "missing", "docker-compose.yml")
		err := NewEmitter(afero.NewOsFs()).Emit(ctx, manifest(t, topology.Default()), out, filepath.Join(t.TempDir(), "logs"))
		require.Error(t, err)

		_, statErr := os.Stat(out)
		assert.True(t, os.IsNotExist(statErr))
	})
}

func TestWriteFileOnDisk(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "docker-compose.yml")
	e := NewEmitter(afero.NewOsFs())

	require.NoError(t, e.WriteFile(out, []byte("a: 1\n")))
	require.NoError(t, e.WriteFile(out, []byte("b: 2\n")))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
