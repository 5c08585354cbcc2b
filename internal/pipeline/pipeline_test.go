package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/runwasm-dev/runwasm/internal/bindgen"
	"github.com/runwasm-dev/runwasm/internal/cargo"
	"github.com/runwasm-dev/runwasm/internal/exit"
	"github.com/runwasm-dev/runwasm/internal/page"
	"github.com/stretchr/testify/require"
)

// fakeTool drops an executable shell script into dir.
func fakeTool(t *testing.T, dir, name, script string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"+script), 0o755))
}

// fakeWorkspace lays out a workspace and chdirs into it, with PATH pointing
// at fake cargo/wasm-bindgen scripts.
func fakeWorkspace(t *testing.T, cargoScript, bindgenScript string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake tool scripts need a unix shell")
	}

	ws := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(ws, "Cargo.toml"), []byte("[package]\nname = \"app\"\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "target"), 0o755))

	bin := t.TempDir()
	fakeTool(t, bin, "cargo", cargoScript)
	fakeTool(t, bin, "wasm-bindgen", bindgenScript)

	t.Setenv("PATH", bin)
	t.Setenv("CARGO", "")
	t.Setenv("CARGO_TARGET_DIR", "")
	t.Chdir(ws)
	return ws
}

// bindgenScriptFor emulates wasm-bindgen: writes the expected outputs for
// name into the --out-dir argument.
func bindgenScriptFor(name string) string {
	return fmt.Sprintf(`out=""
prev=""
for a in "$@"; do
  [ "$prev" = "--out-dir" ] && out="$a"
  prev="$a"
done
mkdir -p "$out"
printf 'export default function init() {}' > "$out/%s.js"
printf '\0asm' > "$out/%s_bg.wasm"
`, name, name)
}

func TestBuildFailureHaltsBeforeBindgen(t *testing.T) {
	marker := filepath.Join(t.TempDir(), "bindgen-ran")
	fakeWorkspace(t, "exit 1", "touch "+marker+"\nexit 0")

	p, err := New(context.Background(), Config{
		Target:    cargo.BuildTarget{Example: "hello"},
		BuildOnly: true,
	})
	require.NoError(t, err)

	err = p.Run(context.Background())
	var buildErr *cargo.BuildError
	require.True(t, errors.As(err, &buildErr))
	require.NoFileExists(t, marker)
}

func TestArtifactNotFoundAfterCleanBuild(t *testing.T) {
	fakeWorkspace(t, "exit 0", bindgenScriptFor("hello"))

	p, err := New(context.Background(), Config{
		Target:    cargo.BuildTarget{Example: "hello"},
		BuildOnly: true,
	})
	require.NoError(t, err)

	err = p.Run(context.Background())
	var nf *cargo.ArtifactNotFoundError
	require.True(t, errors.As(err, &nf))
}

func TestBuildOnlyProducesCompleteBundle(t *testing.T) {
	ws := fakeWorkspace(t, "exit 0", bindgenScriptFor("hello"))

	// artifact a real build would have produced
	artifact := filepath.Join(ws, "target", "wasm-examples-target",
		cargo.TargetTriple, "debug", "examples", "hello.wasm")
	require.NoError(t, os.MkdirAll(filepath.Dir(artifact), 0o755))
	require.NoError(t, os.WriteFile(artifact, []byte{0x00, 0x61, 0x73, 0x6d}, 0o644))

	p, err := New(context.Background(), Config{
		Target:    cargo.BuildTarget{Example: "hello"},
		CSS:       "body { margin: 0px; }",
		BuildOnly: true,
	})
	require.NoError(t, err)
	require.NoError(t, p.Run(context.Background()))

	outDir := filepath.Join(ws, "target", "wasm-examples", "hello")
	require.FileExists(t, filepath.Join(outDir, "hello.js"))
	require.FileExists(t, filepath.Join(outDir, "hello_bg.wasm"))

	html, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	require.NoError(t, err)
	require.Contains(t, string(html), "./hello.js")
	require.Contains(t, string(html), "body { margin: 0px; }")
}

func TestPartialBundleFailsVerification(t *testing.T) {
	// generator produced the glue module but not the binary asset
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.js"), []byte("export default init;"), 0o644))

	err := Bundle{Dir: dir, Name: "hello"}.Verify()
	var genErr *bindgen.GenerationError
	require.True(t, errors.As(err, &genErr))
	require.Contains(t, genErr.Missing, "hello_bg.wasm")
}

func TestMissingToolIsSetupError(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("PATH manipulation differs on windows")
	}
	t.Setenv("PATH", t.TempDir())
	t.Setenv("CARGO", "")

	_, err := New(context.Background(), Config{Target: cargo.BuildTarget{Bin: "app"}})
	var setup *cargo.SetupError
	require.True(t, errors.As(err, &setup))
	require.Contains(t, err.Error(), "rustup")
}

func TestInvalidTargetSelection(t *testing.T) {
	_, err := New(context.Background(), Config{})
	require.ErrorContains(t, err, "need one of")
	require.Equal(t, exit.Usage, exit.Code(err))

	_, err = New(context.Background(), Config{
		Target: cargo.BuildTarget{Bin: "app", Example: "hello"},
	})
	require.ErrorContains(t, err, "mutually exclusive")
	require.Equal(t, exit.Usage, exit.Code(err))
}

func TestBadCSSFailsBeforeAnyBuild(t *testing.T) {
	// rejected during New, before tool lookup, so no fake tools needed
	_, err := New(context.Background(), Config{
		Target: cargo.BuildTarget{Example: "hello"},
		CSS:    "</style><script>alert(1)</script>",
	})
	var assetErr *page.AssetError
	require.True(t, errors.As(err, &assetErr))
	require.Equal(t, exit.Assets, exit.Code(err))
}
