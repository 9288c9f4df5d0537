//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/farcloser/notewise"
	"github.com/farcloser/notewise/internal/dataset"
)

var (
	errEvaluateArgs = errors.New("expected exactly one argument: dataset directory")
	errNotDirectory = errors.New("not a directory")
)

func evaluateCommand() *cli.Command {
	flags := append(configFlags(),
		&cli.StringFlag{
			Name:    "kinds",
			Aliases: []string{"k"},
			Usage:   "Comma-separated datasets to evaluate: " + strings.Join(dataset.KindNames(), ", "),
			Value:   strings.Join(dataset.KindNames(), ","),
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"j"},
			Usage:   "Number of recordings analyzed concurrently",
			Value:   runtime.NumCPU(),
		},
		&cli.IntFlag{
			Name:  "seed",
			Usage: "Seed of the random learning/testing splits",
			Value: 1,
		},
		&cli.BoolFlag{
			Name:  "log-domain",
			Usage: "Compare summed log-densities instead of products of densities",
		},
		&cli.BoolFlag{
			Name:  "repeat-last-dataset",
			Usage: "Train the combined classifier on the last dataset repeated, reproducing the historical figures",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown, latex",
			Value:   "console",
		},
		&cli.BoolFlag{
			Name:    "debug",
			Aliases: []string{"D"},
			Usage:   "Include raw counts and learned models in output",
		},
	)

	return &cli.Command{
		Name:      "evaluate",
		Usage:     "Train and test one naive Bayes classifier per dataset, plus a combined one",
		ArgsUsage: "<dataset-dir>",
		Flags:     flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errEvaluateArgs, cmd.NArg())
			}

			dir := cmd.Args().First()

			info, err := os.Stat(dir)
			if err != nil || !info.IsDir() {
				return fmt.Errorf("%q: %w", dir, errNotDirectory)
			}

			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}

			kinds, err := parseKinds(cmd.String("kinds"))
			if err != nil {
				return err
			}

			seed := cmd.Int("seed")
			if seed < 0 {
				return fmt.Errorf("%w: negative seed %d", notewise.ErrInvalidConfig, seed)
			}

			opts := notewise.EvaluateOptions{
				Config:            cfg,
				Kinds:             kinds,
				Workers:           max(cmd.Int("workers"), 1),
				Seed:              uint64(seed),
				LogDomain:         cmd.Bool("log-domain"),
				RepeatLastDataset: cmd.Bool("repeat-last-dataset"),
				Progress:          progressPrinter(os.Stderr),
			}

			fmt.Fprintf(os.Stderr, "Evaluating %d datasets in %s (%d workers)\n", len(kinds), dir, opts.Workers)

			evaluation, err := notewise.Evaluate(ctx, dir, opts)
			if err != nil {
				return fmt.Errorf("evaluation failed: %w", err)
			}

			return outputEvaluation(evaluation, cmd.String("format"), cmd.Bool("debug"))
		},
	}
}

func parseKinds(raw string) ([]dataset.Kind, error) {
	kinds := []dataset.Kind{}

	for name := range strings.SplitSeq(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		kind, err := dataset.ParseKind(name)
		if err != nil {
			return nil, err
		}

		kinds = append(kinds, kind)
	}

	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: no dataset selected", dataset.ErrUnknownKind)
	}

	return kinds, nil
}

// progressPrinter redraws a single line per dataset on a terminal, and prints one line per recording otherwise.
func progressPrinter(writer *os.File) notewise.Progress {
	interactive := term.IsTerminal(int(writer.Fd())) //nolint:gosec // file descriptors fit in int

	return func(kind dataset.Kind, done, total int) {
		printProgress(writer, interactive, kind, done, total)
	}
}

func printProgress(writer io.Writer, interactive bool, kind dataset.Kind, done, total int) {
	if !interactive {
		fmt.Fprintf(writer, "[%d/%d] %s\n", done, total, kind.Title)

		return
	}

	fmt.Fprintf(writer, "\rReading %s... %d/%d", strings.ToLower(kind.Title), done, total)

	if done == total {
		fmt.Fprintln(writer)
	}
}
