package cargo

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Directories is the workspace layout discovered once at startup and passed
// to every stage that resolves paths.
type Directories struct {
	WorkspaceRoot   string
	TargetDirectory string
}

// wasmTargetDirName is a dedicated target dir for wasm builds, separate from
// the native one. Native builds often carry RUSTFLAGS (custom linkers etc)
// that wasm can't use, and cargo fully rebuilds whenever RUSTFLAGS change,
// so sharing a target dir would thrash the cache.
const wasmTargetDirName = "wasm-examples-target"

// outputDirName holds the generated bundles, one subdirectory per target.
const outputDirName = "wasm-examples"

// WasmTargetDir is where cargo is told to place wasm build output.
func (d Directories) WasmTargetDir() string {
	return filepath.Join(d.TargetDirectory, wasmTargetDirName)
}

// BundleDir is the output directory served for the named target.
func (d Directories) BundleDir(name string) string {
	return filepath.Join(d.TargetDirectory, outputDirName, name)
}

// Discover resolves the workspace root and target directory starting from
// dir. Overrides the compiler honors (CARGO_TARGET_DIR, `[build] target-dir`
// in .cargo/config.toml) take precedence over the conventional target/
// location; `cargo metadata` is the slow-path fallback when nothing can be
// found by walking up.
func Discover(ctx context.Context, cargoExe, dir string) (Directories, error) {
	start, err := filepath.Abs(dir)
	if err != nil {
		return Directories{}, err
	}

	for root := start; ; {
		if fileExists(filepath.Join(root, "Cargo.toml")) {
			if override := targetDirOverride(root); override != "" {
				return Directories{WorkspaceRoot: root, TargetDirectory: override}, nil
			}
			if dirExists(filepath.Join(root, "target")) {
				return Directories{WorkspaceRoot: root, TargetDirectory: filepath.Join(root, "target")}, nil
			}
		}
		parent := filepath.Dir(root)
		if parent == root {
			break
		}
		root = parent
	}

	return metadataDirectories(ctx, cargoExe, start)
}

// cargoConfig mirrors the parts of .cargo/config.toml we care about.
type cargoConfig struct {
	Build struct {
		TargetDir string `toml:"target-dir"`
	} `toml:"build"`
}

// targetDirOverride returns the target directory configured via environment
// or the workspace .cargo/config.toml, or "" when neither applies. Relative
// values resolve against the workspace root, which is where cargo runs.
func targetDirOverride(root string) string {
	if v := os.Getenv("CARGO_TARGET_DIR"); v != "" {
		return absAgainst(root, v)
	}

	// cargo reads both spellings, .toml preferred
	for _, name := range []string{"config.toml", "config"} {
		path := filepath.Join(root, ".cargo", name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg cargoConfig
		if err := toml.Unmarshal(data, &cfg); err != nil {
			continue // a broken config is cargo's problem to report
		}
		if cfg.Build.TargetDir != "" {
			return absAgainst(root, cfg.Build.TargetDir)
		}
	}
	return ""
}

func absAgainst(root, path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}

func fileExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && !stat.IsDir()
}

func dirExists(path string) bool {
	stat, err := os.Stat(path)
	return err == nil && stat.IsDir()
}
