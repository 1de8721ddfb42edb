package main

import (
	"context"
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wippyai/npdmgen/errors"
	"github.com/wippyai/npdmgen/loader"
	"github.com/wippyai/npdmgen/npdm"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <input>...",
		Short: "Validate configuration files without writing descriptors",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.check(cmd.Context(), args)
		},
	}
}

type checkResult struct {
	path string
	size int
	err  error
}

// check builds every input concurrently and reports each in argument order.
// Builds share nothing, so the only coordination is the result slice.
func (a *app) check(ctx context.Context, paths []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]checkResult, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = checkOne(path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			a.logger.Debug("check failed", zap.String("path", r.path), zap.Error(r.err))
			fmt.Fprintf(a.out, "%s %s: %v\n", a.style.fail.Render("FAIL"), r.path, r.err)
			continue
		}
		fmt.Fprintf(a.out, "%s   %s (%s)\n", a.style.ok.Render("ok"), r.path, humanize.IBytes(uint64(r.size)))
	}

	if failed > 0 {
		return errors.New(errors.PhaseValidate, errors.KindInvalidInput).
			Detail("%d of %d inputs failed", failed, len(paths)).
			Build()
	}
	return nil
}

func checkOne(path string) checkResult {
	cfg, err := loader.Load(path)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	d, err := npdm.Build(cfg)
	if err != nil {
		return checkResult{path: path, err: err}
	}
	return checkResult{path: path, size: d.Layout.Size}
}
