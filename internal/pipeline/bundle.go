package pipeline

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/runwasm-dev/runwasm/internal/bindgen"
	"github.com/runwasm-dev/runwasm/internal/page"
)

// Bundle is the generated output directory and the files expected inside it.
type Bundle struct {
	Dir  string
	Name string
}

// Files returns the three names the server will hand to the browser.
func (b Bundle) Files() []string {
	return []string{
		page.IndexName,
		bindgen.GlueName(b.Name),
		bindgen.BinaryName(b.Name),
	}
}

// Verify confirms every bundle file exists and is non-empty. An incomplete
// bundle must never reach the serving stage; this is terminal, not
// retryable.
func (b Bundle) Verify() error {
	for _, file := range b.Files() {
		path := filepath.Join(b.Dir, file)
		info, err := os.Stat(path)
		if err == nil && info.Size() == 0 {
			err = errors.Newf("%s is empty", path)
		}
		if err != nil {
			if file == page.IndexName {
				return &page.AssetError{Path: path, Err: err}
			}
			return &bindgen.GenerationError{Missing: path}
		}
	}
	return nil
}
