package cargo

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/runwasm-dev/runwasm/internal/msg"
)

// locateArtifact resolves the wasm file a successful build produced.
// The conventional path is computed first and trusted when it exists; paths
// are verified on disk rather than merely predicted, because profile and
// workspace layouts can shift the output directory. When the convention
// misses, the whole wasm target dir is searched and the most recently
// modified match wins.
func locateArtifact(wasmTargetDir string, t *BuildTarget) (string, error) {
	conventional := conventionalArtifactPath(wasmTargetDir, t)
	if info, err := os.Stat(conventional); err == nil && info.Size() > 0 {
		return conventional, nil
	}
	checked := []string{conventional}

	match, searched, err := newestMatch(wasmTargetDir, t.Name()+".wasm")
	checked = append(checked, searched...)
	if err == nil && match != "" {
		msg.Warn("artifact not at the conventional path, using %s", match)
		return match, nil
	}

	return "", &ArtifactNotFoundError{Target: t.Name(), Checked: checked}
}

// conventionalArtifactPath is where cargo places the artifact by convention:
// <wasm target dir>/<triple>/<profile dir>[/examples]/<name>.wasm.
func conventionalArtifactPath(wasmTargetDir string, t *BuildTarget) string {
	dir := filepath.Join(wasmTargetDir, TargetTriple, t.ProfileDir())
	if t.Example != "" {
		dir = filepath.Join(dir, "examples")
	}
	return filepath.Join(dir, t.Name()+".wasm")
}

// newestMatch globs for filename anywhere under root and returns the most
// recently modified non-empty match. Multiple matches (same name under
// several profile dirs) are a warning, not an error.
func newestMatch(root, filename string) (string, []string, error) {
	matches, err := doublestar.Glob(os.DirFS(root), "**/"+filename, doublestar.WithFilesOnly())
	if err != nil {
		return "", []string{filepath.Join(root, "**", filename)}, err
	}

	var (
		newest     string
		newestTime time.Time
		searched   []string
	)
	for _, m := range matches {
		abs := filepath.Join(root, filepath.FromSlash(m))
		searched = append(searched, abs)
		info, err := os.Stat(abs)
		if err != nil || info.Size() == 0 {
			continue
		}
		if newest == "" || info.ModTime().After(newestTime) {
			newest = abs
			newestTime = info.ModTime()
		}
	}
	if len(searched) == 0 {
		searched = []string{filepath.Join(root, "**", filename)}
	}
	if len(matches) > 1 && newest != "" {
		msg.Warn("%d files named %s under %s, picking the most recently built", len(matches), filename, root)
	}
	return newest, searched, nil
}
