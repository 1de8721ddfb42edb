// Command npdmtool builds NPDM program descriptors from JSON or YAML
// configuration files.
//
//	npdmtool build app.json             writes new.npdm
//	npdmtool build app.json main.npdm --layout
//	npdmtool build app.json -i          inspect the layout interactively
//	npdmtool check a.json b.yaml ...
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/wippyai/npdmgen/loader"
	"github.com/wippyai/npdmgen/npdm"
)

type app struct {
	out    io.Writer
	errOut io.Writer
	errFd  uintptr

	verbose bool
	color   string

	logger *zap.Logger
	style  palette

	// inspect runs the interactive layout viewer; replaced in tests.
	inspect func(name string, d *npdm.Descriptor) error
}

func newApp(out, errOut io.Writer, errFd uintptr) *app {
	return &app{
		out:     out,
		errOut:  errOut,
		errFd:   errFd,
		color:   colorAuto,
		logger:  zap.NewNop(),
		style:   newPalette(plainRenderer(errOut)),
		inspect: runInspector,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "npdmtool",
		Short: "Build NPDM program descriptors",
		Long: `npdmtool turns a JSON or YAML program metadata description into an
NPDM descriptor: a META header followed by the ACID and ACI0 access control
sections.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			r, err := newRenderer(a.errOut, a.color, a.errFd)
			if err != nil {
				return err
			}
			a.style = newPalette(r)

			config := zap.NewDevelopmentConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			loader.SetLogger(logger.Named("loader"))
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&a.color, "color", colorAuto, "colorize output: auto, always or never")

	root.AddCommand(a.buildCmd(), a.checkCmd())
	root.SetOut(a.out)
	root.SetErr(a.errOut)
	return root
}

// run executes the command line and returns the process exit status.
func (a *app) run(args []string) int {
	root := a.rootCmd()
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(a.errOut, a.style.renderError(err))
		return 1
	}
	return 0
}

func main() {
	a := newApp(os.Stdout, os.Stderr, os.Stderr.Fd())
	os.Exit(a.run(os.Args[1:]))
}
