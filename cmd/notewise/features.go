//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/farcloser/notewise"
	"github.com/farcloser/notewise/internal/output"
)

var errFeaturesArgs = errors.New("expected exactly one argument: WAVE file path")

// configFlags are shared by every command analyzing recordings.
func configFlags() []cli.Flag {
	defaults := notewise.DefaultConfig()

	return []cli.Flag{
		&cli.IntFlag{
			Name:    "frame-size",
			Aliases: []string{"n"},
			Usage:   "Samples per spectrum frame",
			Value:   defaults.FrameSize,
		},
		&cli.IntFlag{
			Name:  "sample-rate",
			Usage: "Sample rate assumed for every recording, in Hz",
			Value: defaults.SampleRate,
		},
		&cli.FloatFlag{
			Name:  "reference",
			Usage: "Frequency of the lowest analyzed note, in Hz",
			Value: defaults.ReferenceFreq,
		},
		&cli.IntFlag{
			Name:  "notes",
			Usage: "Number of analyzed semitones, starting at the reference",
			Value: defaults.NoteCount,
		},
		&cli.StringFlag{
			Name:    "channel",
			Aliases: []string{"c"},
			Usage:   "Analyzed channel: left, right",
			Value:   defaults.Channel.String(),
		},
	}
}

func parseConfig(cmd *cli.Command) (notewise.Config, error) {
	channel, err := notewise.ParseChannel(cmd.String("channel"))
	if err != nil {
		return notewise.Config{}, err
	}

	cfg := notewise.Config{
		SampleRate:    cmd.Int("sample-rate"),
		ReferenceFreq: cmd.Float("reference"),
		NoteCount:     cmd.Int("notes"),
		FrameSize:     cmd.Int("frame-size"),
		Channel:       channel,
	}

	if cfg.SampleRate <= 0 || cfg.ReferenceFreq <= 0 || cfg.NoteCount <= 0 || cfg.FrameSize <= 0 {
		return notewise.Config{}, fmt.Errorf("%w: sample rate, reference, notes and frame size must be positive",
			notewise.ErrInvalidConfig)
	}

	return cfg, nil
}

func featuresCommand() *cli.Command {
	flags := append(configFlags(),
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:  "parquet",
			Usage: "Write the feature matrix to this Parquet file instead of printing it",
		},
	)

	return &cli.Command{
		Name:      "features",
		Usage:     "Print the deviation, peakiness and relative fundamental of every note in every frame",
		ArgsUsage: "<file.wav>",
		Flags:     flags,
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() != 1 {
				return fmt.Errorf("%w: got %d", errFeaturesArgs, cmd.NArg())
			}

			cfg, err := parseConfig(cmd)
			if err != nil {
				return err
			}

			inputPath := cmd.Args().First()

			features, lvl, err := notewise.Extract(inputPath, cfg)
			if err != nil {
				return fmt.Errorf("extraction failed: %w", err)
			}

			if path := cmd.String("parquet"); path != "" {
				return writeParquet(path, features)
			}

			return outputFeatures(inputPath, cfg, lvl, features, cmd.String("format"))
		},
	}
}

func writeParquet(path string, features []notewise.NoteFeature) error {
	file, err := os.Create(path) //nolint:gosec // CLI tool writes a user-specified file
	if err != nil {
		return fmt.Errorf("creating parquet file: %w", err)
	}

	if err = output.WriteParquet(file, features); err != nil {
		_ = file.Close()

		return err
	}

	return file.Close()
}
