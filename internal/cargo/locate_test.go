package cargo

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

// writeArtifact creates a non-empty fake wasm file at the given path.
func writeArtifact(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte{0x00, 0x61, 0x73, 0x6d}, 0o644))
}

func TestLocateArtifactConventionalPaths(t *testing.T) {
	tests := []struct {
		name   string
		target BuildTarget
		rel    []string // artifact path under <wasm target dir>/<triple>
	}{
		{
			name:   "example debug",
			target: BuildTarget{Example: "hello"},
			rel:    []string{"debug", "examples", "hello.wasm"},
		},
		{
			name:   "example release",
			target: BuildTarget{Example: "hello", Profile: "release"},
			rel:    []string{"release", "examples", "hello.wasm"},
		},
		{
			name:   "bin debug",
			target: BuildTarget{Bin: "app"},
			rel:    []string{"debug", "app.wasm"},
		},
		{
			name:   "package with dev profile",
			target: BuildTarget{Package: "pkg", Profile: "dev"},
			rel:    []string{"debug", "pkg.wasm"},
		},
		{
			name:   "bin with named profile",
			target: BuildTarget{Bin: "app", Profile: "profiling"},
			rel:    []string{"profiling", "app.wasm"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wasmTargetDir := t.TempDir()
			want := filepath.Join(append([]string{wasmTargetDir, TargetTriple}, tt.rel...)...)
			writeArtifact(t, want)

			got, err := locateArtifact(wasmTargetDir, &tt.target)
			require.NoError(t, err)
			require.Equal(t, want, got)
		})
	}
}

func TestLocateArtifactFallbackSearch(t *testing.T) {
	// artifact lives under a different profile dir than requested, the
	// glob fallback should still find it
	wasmTargetDir := t.TempDir()
	stray := filepath.Join(wasmTargetDir, TargetTriple, "custom", "app.wasm")
	writeArtifact(t, stray)

	got, err := locateArtifact(wasmTargetDir, &BuildTarget{Bin: "app"})
	require.NoError(t, err)
	require.Equal(t, stray, got)
}

func TestLocateArtifactPrefersNewest(t *testing.T) {
	wasmTargetDir := t.TempDir()
	older := filepath.Join(wasmTargetDir, TargetTriple, "release", "app.wasm")
	newer := filepath.Join(wasmTargetDir, TargetTriple, "profiling", "app.wasm")
	writeArtifact(t, older)
	writeArtifact(t, newer)

	then := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, then, then))

	got, err := locateArtifact(wasmTargetDir, &BuildTarget{Bin: "app", Profile: "bench"})
	require.NoError(t, err)
	require.Equal(t, newer, got)
}

func TestLocateArtifactNotFound(t *testing.T) {
	wasmTargetDir := t.TempDir()

	_, err := locateArtifact(wasmTargetDir, &BuildTarget{Example: "hello"})
	var nf *ArtifactNotFoundError
	require.True(t, errors.As(err, &nf))
	require.Equal(t, "hello", nf.Target)
	require.NotEmpty(t, nf.Checked)
	require.Contains(t, nf.Checked[0], filepath.Join("debug", "examples", "hello.wasm"))
}

func TestLocateArtifactIgnoresEmptyFiles(t *testing.T) {
	wasmTargetDir := t.TempDir()
	empty := filepath.Join(wasmTargetDir, TargetTriple, "debug", "app.wasm")
	require.NoError(t, os.MkdirAll(filepath.Dir(empty), 0o755))
	require.NoError(t, os.WriteFile(empty, nil, 0o644))

	_, err := locateArtifact(wasmTargetDir, &BuildTarget{Bin: "app"})
	var nf *ArtifactNotFoundError
	require.True(t, errors.As(err, &nf))
}
