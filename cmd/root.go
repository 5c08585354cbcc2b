// runwasm [flags] [-- <cargo build flags>]
package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/runwasm-dev/runwasm/internal/bindgen"
	"github.com/runwasm-dev/runwasm/internal/cargo"
	"github.com/runwasm-dev/runwasm/internal/exit"
	"github.com/runwasm-dev/runwasm/internal/msg"
	"github.com/runwasm-dev/runwasm/internal/pipeline"
	"github.com/spf13/cobra"
)

var (
	flagPackage   string
	flagBin       string
	flagExample   string
	flagProfile   string
	flagRelease   bool
	flagBuildOnly bool
	flagHost      string
	flagPort      int

	flagBindgenTarget = NewEnumValue(bindgen.TargetWeb, map[string]string{
		bindgen.TargetWeb:       "ES module glue, loaded with import (default)",
		bindgen.TargetNoModules: "classic script glue exposing a wasm_bindgen global",
	})

	// pageCSS is set by Execute. It comes from the embedding integration,
	// not from a flag: page styling belongs to the project, not to a single
	// invocation.
	pageCSS string
)

var rootCmd = &cobra.Command{
	Use:   "runwasm [flags] [-- <cargo build flags>]",
	Short: "Build a cargo workspace member as WebAssembly and serve it locally",
	Long: `Compiles a package, binary or example of the local cargo workspace to
wasm32-unknown-unknown, runs wasm-bindgen on the artifact, writes a boot
index.html and serves the result on a local web server until interrupted.

Exactly one of --package, --bin or --example must be given. Anything after
"--" is forwarded to cargo build verbatim (e.g. --features, --locked).

Requires cargo and wasm-bindgen on PATH. The wasm-bindgen CLI version must
match the wasm-bindgen crate version the project depends on.`,
	Args: cobra.ArbitraryArgs,
	Run:  doRun,
}

func doRun(cmd *cobra.Command, args []string) {
	profile := flagProfile
	if flagRelease {
		if profile != "" {
			msg.Fatal(exit.Usage, "conflicting usage of --profile and --release; `--release` is the same as `--profile=release`")
		}
		profile = "release"
	}

	cfg := pipeline.Config{
		Target: cargo.BuildTarget{
			Package:   flagPackage,
			Bin:       flagBin,
			Example:   flagExample,
			Profile:   profile,
			ExtraArgs: args,
		},
		CSS:           pageCSS,
		BindgenTarget: flagBindgenTarget.Value(),
		BuildOnly:     flagBuildOnly,
		Host:          flagHost,
		Port:          flagPort,
	}

	// the whole pipeline is cancelled by terminating the process; child
	// processes hang off this context so none of them outlive it
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(ctx, cfg)
	if err != nil {
		msg.Fatal(exit.Code(err), "%v", err)
	}
	if err := p.Run(ctx); err != nil {
		msg.Fatal(exit.Code(err), "%v", err)
	}
}

func init() {
	rootCmd.Flags().StringVarP(&flagPackage, "package", "p", "", "Package with the target to run")
	rootCmd.Flags().StringVar(&flagBin, "bin", "", "Name of the bin target to run")
	rootCmd.Flags().StringVar(&flagExample, "example", "", "Name of the example target to run")
	rootCmd.Flags().StringVar(&flagProfile, "profile", "", "Build artifacts with the specified profile")
	rootCmd.Flags().BoolVarP(&flagRelease, "release", "r", false, "Build artifacts in release mode, with optimizations")
	rootCmd.Flags().BoolVar(&flagBuildOnly, "build-only", false, "Only build the wasm bundle, do not run the dev server")
	rootCmd.Flags().StringVar(&flagHost, "host", "localhost", "Host for the dev server to listen on")
	rootCmd.Flags().IntVar(&flagPort, "port", 8000, "Port for the dev server to listen on (0 picks a free port)")
	rootCmd.Flags().VarP(&flagBindgenTarget, "bindgen-target", "t", "wasm-bindgen output mode, one of "+flagBindgenTarget.HelpString())
	rootCmd.RegisterFlagCompletionFunc("bindgen-target", flagBindgenTarget.CompletionFunc())
}

// Execute runs the CLI. css is embedded verbatim into the generated boot
// HTML; pass "" for the browser's default page styling.
func Execute(css string) {
	pageCSS = css
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exit.Usage)
	}
}
