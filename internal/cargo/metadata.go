package cargo

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"

	"github.com/cockroachdb/errors"
)

// metadata mirrors the fields of `cargo metadata` output we consume.
type metadata struct {
	TargetDirectory string `json:"target_directory"`
	WorkspaceRoot   string `json:"workspace_root"`
}

// metadataDirectories asks cargo itself for the workspace layout. This is
// the slow path (cargo can take tens of milliseconds here) but it is always
// right, including exotic target-dir configurations the fast path misses.
func metadataDirectories(ctx context.Context, cargoExe, dir string) (Directories, error) {
	cmd := exec.CommandContext(ctx, cargoExe, "metadata", "--no-deps", "--format-version=1")
	cmd.Dir = dir
	cmd.Stderr = os.Stderr

	out, err := cmd.Output()
	if err != nil {
		return Directories{}, errors.Wrapf(err, "`cargo metadata` failed in %s", dir)
	}

	var md metadata
	if err := json.Unmarshal(out, &md); err != nil {
		return Directories{}, errors.Wrap(err, "unexpected `cargo metadata` output")
	}
	if md.WorkspaceRoot == "" || md.TargetDirectory == "" {
		return Directories{}, errors.Newf("`cargo metadata` reported no workspace for %s", dir)
	}
	return Directories{WorkspaceRoot: md.WorkspaceRoot, TargetDirectory: md.TargetDirectory}, nil
}
