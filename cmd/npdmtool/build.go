package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/loader"
	"github.com/wippyai/npdmgen/npdm"
)

const defaultOutput = "new.npdm"

func (a *app) buildCmd() *cobra.Command {
	var (
		showLayout  bool
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "build <input> [output]",
		Short: "Build a descriptor from a configuration file",
		Long: `Build validates the configuration and writes the descriptor to output
(default ` + defaultOutput + `). Nothing is written when validation fails.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := defaultOutput
			if len(args) == 2 {
				output = args[1]
			}
			return a.build(args[0], output, showLayout, interactive)
		},
	}

	cmd.Flags().BoolVarP(&showLayout, "layout", "l", false, "print the region and table map")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "open the layout inspector instead of printing")
	return cmd
}

func (a *app) build(input, output string, showLayout, interactive bool) error {
	cfg, err := loader.Load(input)
	if err != nil {
		return err
	}

	desc, err := npdm.Build(cfg)
	if err != nil {
		return err
	}
	a.logger.Debug("descriptor built",
		zap.String("input", input),
		zap.Int("size", desc.Layout.Size),
		zap.Int("capability_words", len(desc.Layout.Capabilities)))

	if err := os.WriteFile(output, desc.Bytes, 0o644); err != nil {
		return errors.Wrap(errors.PhaseWrite, errors.KindInvalidInput, err, "write "+output)
	}
	a.logger.Debug("descriptor written", zap.String("output", output))

	if interactive {
		return a.inspect(input, desc)
	}

	fmt.Fprintf(a.out, "%s %s (%s)\n",
		a.style.ok.Render("wrote"), output, humanize.IBytes(uint64(len(desc.Bytes))))
	if showLayout {
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, formatLayout(a.style, desc.Layout))
	}
	return nil
}
