// Command blobtrack-replay runs the tracker over detections stored in CSV and
// writes per-frame trajectories.
//
//	blobtrack-replay -config tuning.toml -in detections.csv -out tracks.csv
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"

	"github.com/pkg/errors"

	"github.com/LdDl/blobtrack/config"
	"github.com/LdDl/blobtrack/mot"
)

var (
	configPath = flag.String("config", "", "Path to tuning file (toml/yaml/json). Defaults to $BLOBTRACK_CONFIG or ./blobtrack.*")
	inPath     = flag.String("in", "", "Detections CSV: frame;x;y;width;height;label;confidence")
	outPath    = flag.String("out", "", "Output CSV. Stdout when empty")
	verbose    = flag.Bool("v", false, "Debug logging")
)

func main() {
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("replay failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	if *inPath == "" {
		return errors.New("-in is required")
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	logger.Info("configuration loaded",
		"assignment", cfg.Assignment.String(),
		"motion", cfg.Motion.String(),
		"max_misses", cfg.MaxConsecutiveMisses,
		"threshold", cfg.MatchCostThreshold,
	)

	in, err := os.Open(*inPath)
	if err != nil {
		return errors.Wrap(err, "Can't open detections")
	}
	defer in.Close()
	frames, err := readDetections(in)
	if err != nil {
		return err
	}

	out := os.Stdout
	if *outPath != "" {
		out, err = os.Create(*outPath)
		if err != nil {
			return errors.Wrap(err, "Can't create output")
		}
		defer out.Close()
	}

	tracker, err := mot.NewTracker(cfg, mot.WithLogger(logger))
	if err != nil {
		return err
	}
	return replay(ctx, tracker, frames, out)
}
