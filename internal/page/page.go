// Package page composes the boot HTML that loads a generated wasm bundle.
package page

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runwasm-dev/runwasm/internal/bindgen"
	"github.com/runwasm-dev/runwasm/internal/exit"
)

// IndexName is the fixed boot document name, served at the root path.
const IndexName = "index.html"

// AssetError means the boot HTML could not be composed or written.
type AssetError struct {
	Path string
	Err  error
}

func (e *AssetError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *AssetError) Unwrap() error { return e.Err }

func (e *AssetError) ExitCode() int { return exit.Assets }

// moduleTemplate boots a `--target web` bundle: the glue file is an ES
// module whose default export instantiates the wasm binary.
const moduleTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{name}}</title>
    <style>
        {{css}}
    </style>
</head>
<body>
    <script type="module">
        import init from './{{glue}}';
        init();
    </script>
</body>
</html>
`

// globalTemplate boots a `--target no-modules` bundle: the glue file is a
// classic script that installs a global wasm_bindgen loader.
const globalTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>{{name}}</title>
    <style>
        {{css}}
    </style>
</head>
<body>
    <script src="./{{glue}}"></script>
    <script>
        wasm_bindgen('./{{binary}}');
    </script>
</body>
</html>
`

// ValidateCSS guards the one way css can escape its element: a closing
// style tag would let the rest of the text inject elements into the DOM.
// Called before the pipeline starts so a bad value fails in milliseconds,
// not after a full build.
func ValidateCSS(css string) error {
	if strings.Contains(css, "</style>") {
		return &AssetError{Err: fmt.Errorf("`</style>` is not allowed in the page css")}
	}
	return nil
}

// Compose renders the boot HTML for a target. It is a pure function: the
// same inputs always produce the same bytes. The CSS is embedded verbatim
// (it comes from the same developer, not the network), subject only to the
// ValidateCSS guard.
func Compose(name, css, bindgenTarget string) (string, error) {
	if err := ValidateCSS(css); err != nil {
		return "", err
	}

	tmpl := moduleTemplate
	if bindgenTarget == bindgen.TargetNoModules {
		tmpl = globalTemplate
	}

	// Replacer works in a single pass, substituted text is never rescanned,
	// so css containing marker-lookalikes stays verbatim.
	r := strings.NewReplacer(
		"{{name}}", name,
		"{{glue}}", bindgen.GlueName(name),
		"{{binary}}", bindgen.BinaryName(name),
		"{{css}}", css,
	)
	return r.Replace(tmpl), nil
}

// WriteIndex writes the boot HTML into dir, overwriting any previous one.
func WriteIndex(dir, html string) error {
	path := filepath.Join(dir, IndexName)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return &AssetError{Path: path, Err: err}
	}
	return nil
}
