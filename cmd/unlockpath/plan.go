package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/bayleafwalker/unlockpath/internal/config"
	"github.com/bayleafwalker/unlockpath/internal/report"
	"github.com/bayleafwalker/unlockpath/internal/request"
	"github.com/bayleafwalker/unlockpath/internal/resolver"
)

const prompt = `Enter the requested capabilities, one per line, as "[>] <quality> <capability>".
A leading '>' pins the request to its own provider. Finish with an empty line.
`

type planOptions struct {
	detailed bool
	allPaths bool
	progress bool
	color    string
	timeout  time.Duration
}

func newPlanCmd(root *rootOptions) *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan [file]",
		Short: "Find the shortest unlocking paths for a list of requests",
		Long: `Reads capability requests from file, or from standard input when no file
is given, and prints every minimal unlocking path together with the
capabilities it grants beyond the requests.

Exit codes: 0 resolved, 1 usage or configuration error, 3 no requests or a
request no provider can serve, 4 pinned requests cannot share providers.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			overrides := &config.Config{}
			flags := cmd.Flags()
			if flags.Changed("all-paths") {
				overrides.Search.AllPaths = &opts.allPaths
			}
			overrides.Search.Progress = opts.progress
			overrides.Search.Timeout = opts.timeout
			overrides.Output.Detailed = opts.detailed
			if flags.Changed("color") {
				overrides.Output.Color = opts.color
			}
			cfg.Merge(overrides)
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return runPlan(cmd, root, cfg, args)
		},
	}

	cmd.Flags().BoolVarP(&opts.detailed, "detailed", "d", false, "List every offering of every provider on a path")
	cmd.Flags().BoolVar(&opts.allPaths, "all-paths", true, "Show every minimal path instead of the first one")
	cmd.Flags().BoolVar(&opts.progress, "progress", false, "Report search progress on stderr")
	cmd.Flags().StringVar(&opts.color, "color", "auto", "Colorize output: auto, always, never")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Abort the search after this long (0 = unbounded)")
	return cmd
}

func runPlan(cmd *cobra.Command, root *rootOptions, cfg *config.Config, args []string) error {
	ctx := cmd.Context()
	log := logr.FromContextOrDiscard(ctx)
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	cat, err := root.loadCatalog(ctx, cfg)
	if err != nil {
		return err
	}

	var in io.Reader = cmd.InOrStdin()
	interactive := false
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open requests: %w", err)
		}
		defer f.Close()
		in = f
	} else if isTerminal(in) {
		interactive = true
		fmt.Fprint(stderr, prompt)
	}
	// Requests and the pauses between paths share one reader.
	br := bufio.NewReader(in)

	reqs, errs := request.Parse(br, cat)
	for _, e := range errs {
		fmt.Fprintf(stderr, "Warning: %v\n", e)
	}
	if len(reqs) == 0 {
		return &exitError{code: exitUncovered, err: errors.New("no requests given")}
	}
	log.V(1).Info("requests parsed", "requests", len(reqs), "rejected", len(errs))

	var opts []resolver.Option
	opts = append(opts, resolver.WithAllPaths(cfg.Search.AllPathsEnabled()))
	if cfg.Search.Progress {
		opts = append(opts, resolver.WithProgress(progressReporter(stderr)))
	}
	if cfg.Search.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Search.Timeout)
		defer cancel()
	}

	plan, err := resolver.NewDefault(cat, opts...).Resolve(ctx, resolver.Input{Requests: reqs})
	if cfg.Search.Progress {
		fmt.Fprintln(stderr)
	}
	switch {
	case errors.Is(err, resolver.ErrMissingCoverage):
		return &exitError{code: exitUncovered, err: err}
	case errors.Is(err, resolver.ErrInfeasible):
		return &exitError{code: exitInfeasible, err: err}
	case err != nil:
		return err
	}
	log.V(1).Info("search finished",
		"combinations", plan.Stats.Total.String(),
		"evaluated", plan.Stats.Evaluated,
		"pruned", plan.Stats.Pruned)

	p := report.NewPrinter(stdout, cat, report.ColorMode(cfg.Output.Color))
	fmt.Fprintln(stdout, "Requested:")
	p.Requests(reqs)
	fmt.Fprintln(stdout)
	p.Header(len(plan.Paths))
	for i, path := range plan.Paths {
		if i > 0 {
			if interactive {
				fmt.Fprint(stderr, "Press Enter for the next path...")
				if _, err := br.ReadString('\n'); err != nil {
					return nil
				}
			}
			fmt.Fprintln(stdout)
		}
		if cfg.Output.Detailed {
			p.Detailed(i, path, reqs)
		} else {
			p.Summary(i, path)
		}
	}
	return nil
}

// progressReporter redraws one status line at most five times a second.
func progressReporter(w io.Writer) func(resolver.Progress) {
	limit := rate.Sometimes{Interval: 200 * time.Millisecond}
	return func(p resolver.Progress) {
		limit.Do(func() {
			fmt.Fprintf(w, "\rSearching... %5.1f%%", 100*p.Fraction())
		})
	}
}
