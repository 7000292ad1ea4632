package archive

import (
	"archive/tar"
	"compress/gzip"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackUnpackRoundTrip(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "abc-123.jsonl")
	content := []byte(`{"cwd":"/work/app"}` + "\n" + `{"text":"hello"}` + "\n")
	require.NoError(t, os.WriteFile(srcPath, content, 0o644))

	archivePath := filepath.Join(t.TempDir(), "claude-session.tar.gz")
	a := NewTarGz()
	require.NoError(t, a.Pack(srcPath, archivePath))

	destDir := t.TempDir()
	names, err := a.Unpack(archivePath, destDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"abc-123.jsonl"}, names)

	restored, err := os.ReadFile(filepath.Join(destDir, "abc-123.jsonl"))
	require.NoError(t, err)
	// Byte-for-byte round trip
	assert.Equal(t, content, restored)
}

func TestPackStoresBaseNameOnly(t *testing.T) {
	srcDir := t.TempDir()
	srcPath := filepath.Join(srcDir, "nested", "abc.jsonl")
	require.NoError(t, os.MkdirAll(filepath.Dir(srcPath), 0o755))
	require.NoError(t, os.WriteFile(srcPath, []byte("x"), 0o644))

	archivePath := filepath.Join(t.TempDir(), "out.tar.gz")
	require.NoError(t, NewTarGz().Pack(srcPath, archivePath))

	f, err := os.Open(archivePath)
	require.NoError(t, err)
	defer f.Close()
	gzr, err := gzip.NewReader(f)
	require.NoError(t, err)
	tr := tar.NewReader(gzr)

	header, err := tr.Next()
	require.NoError(t, err)
	assert.Equal(t, "abc.jsonl", header.Name)

	_, err = tr.Next()
	assert.Equal(t, io.EOF, err)
}

func TestPackMissingSource(t *testing.T) {
	err := NewTarGz().Pack(filepath.Join(t.TempDir(), "absent"), filepath.Join(t.TempDir(), "out.tar.gz"))
	assert.Error(t, err)
}

func TestUnpackRejectsNonGzip(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "bogus.tar.gz")
	require.NoError(t, os.WriteFile(archivePath, []byte("plain text"), 0o644))

	_, err := NewTarGz().Unpack(archivePath, t.TempDir())
	assert.Error(t, err)
}

func TestUnpackFlattensEntryPaths(t *testing.T) {
	// Hand-build an archive with a nested entry name; extraction must land
	// the file flat in the destination.
	archivePath := filepath.Join(t.TempDir(), "nested.tar.gz")
	f, err := os.Create(archivePath)
	require.NoError(t, err)
	gzw := gzip.NewWriter(f)
	tw := tar.NewWriter(gzw)
	content := []byte("payload")
	require.NoError(t, tw.WriteHeader(&tar.Header{
		Name:     "deep/dir/session.jsonl",
		Mode:     0o644,
		Size:     int64(len(content)),
		Typeflag: tar.TypeReg,
	}))
	_, err = tw.Write(content)
	require.NoError(t, err)
	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	require.NoError(t, f.Close())

	destDir := t.TempDir()
	names, err := NewTarGz().Unpack(archivePath, destDir)
	require.NoError(t, err)
	assert.Equal(t, []string{"session.jsonl"}, names)
	assert.FileExists(t, filepath.Join(destDir, "session.jsonl"))
}
