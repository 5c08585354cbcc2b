// Package pipeline runs the build → bind → compose → serve stages strictly
// in order. Every stage failure is terminal; nothing retries and no stage
// starts before its predecessor has fully succeeded.
package pipeline

import (
	"context"
	"os"

	"github.com/runwasm-dev/runwasm/internal/bindgen"
	"github.com/runwasm-dev/runwasm/internal/cargo"
	"github.com/runwasm-dev/runwasm/internal/devserver"
	"github.com/runwasm-dev/runwasm/internal/msg"
	"github.com/runwasm-dev/runwasm/internal/page"
)

// Config is everything one invocation needs, captured up front so no stage
// reads the environment behind the pipeline's back.
type Config struct {
	Target cargo.BuildTarget

	// CSS is embedded verbatim into the boot HTML. It is supplied at
	// integration time (by the embedding runner), not on the command line.
	CSS string

	// BindgenTarget is the wasm-bindgen output mode, bindgen.TargetWeb by
	// default.
	BindgenTarget string

	// BuildOnly stops after the bundle is written instead of serving it.
	BuildOnly bool

	Host string
	Port int
}

// Pipeline holds the state shared across stages: tool locations and the
// workspace layout, both resolved once in New.
type Pipeline struct {
	cfg     Config
	cargo   *cargo.Invoker
	bindgen *bindgen.Generator
	dirs    cargo.Directories
}

// New validates the target and captures the process-wide state (working
// directory, PATH lookups, workspace layout). Missing tools surface here as
// setup errors before any build work starts.
func New(ctx context.Context, cfg Config) (*Pipeline, error) {
	if err := cfg.Target.Validate(); err != nil {
		return nil, err
	}
	if err := page.ValidateCSS(cfg.CSS); err != nil {
		return nil, err
	}
	if cfg.BindgenTarget == "" {
		cfg.BindgenTarget = bindgen.TargetWeb
	}

	cargoExe, err := cargo.Executable()
	if err != nil {
		return nil, err
	}
	bindgenExe, err := bindgen.Find()
	if err != nil {
		return nil, err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, err
	}
	dirs, err := cargo.Discover(ctx, cargoExe, cwd)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:     cfg,
		cargo:   &cargo.Invoker{Cargo: cargoExe, Dirs: dirs},
		bindgen: &bindgen.Generator{Exe: bindgenExe, Target: cfg.BindgenTarget},
		dirs:    dirs,
	}, nil
}

// Run executes the stages. It blocks until the server is interrupted (or,
// with BuildOnly, returns as soon as the bundle is on disk).
func (p *Pipeline) Run(ctx context.Context) error {
	result, err := p.cargo.Build(ctx, &p.cfg.Target)
	if err != nil {
		return err
	}

	outDir := p.dirs.BundleDir(result.Name)
	if err := p.bindgen.Generate(ctx, result.Artifact, result.Name, outDir); err != nil {
		return err
	}

	html, err := page.Compose(result.Name, p.cfg.CSS, p.cfg.BindgenTarget)
	if err != nil {
		return err
	}
	if err := page.WriteIndex(outDir, html); err != nil {
		return err
	}

	bundle := Bundle{Dir: outDir, Name: result.Name}
	if err := bundle.Verify(); err != nil {
		return err
	}

	if p.cfg.BuildOnly {
		msg.Info("bundle for `%s` written to %s", result.Name, outDir)
		return nil
	}

	return devserver.Run(ctx, devserver.Config{
		Host: p.cfg.Host,
		Port: p.cfg.Port,
		Dir:  outDir,
	})
}
