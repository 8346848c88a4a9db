package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/ccollicutt/survmon/pkg/config"
	"github.com/ccollicutt/survmon/pkg/survey"
)

// clock is the time source for scan timing and report metadata.
var clock = clockwork.NewRealClock()

// SetClock replaces the time source. A nil clock restores the real one.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}

// session is a configuration together with the dataset scanned from its data directory.
type session struct {
	cfg     *config.Config
	dataset survey.Dataset
	scan    *survey.ScanResult
	started time.Time
}

func (s *session) levels() survey.TriggerLevels {
	return triggerLevels(s.cfg)
}

func triggerLevels(cfg *config.Config) survey.TriggerLevels {
	return survey.TriggerLevels{
		Amber: cfg.TriggerLevels.Amber,
		Red:   cfg.TriggerLevels.Red,
	}
}

// loadSession loads the configuration and scans every snapshot in its data directory.
func loadSession(ctx context.Context, g *GlobalOptions) (*session, error) {
	cfg, err := config.Load(ctx, g.ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := g.Logger()
	scanner := survey.NewScanner(cfg.DataDir,
		survey.WithProcessed(cfg.SkipTimes()),
		survey.WithLogger(logger))

	s := &session{
		cfg:     cfg,
		dataset: survey.NewDataset(),
		started: clock.Now(),
	}

	logger.Debug("scanning data directory", "dir", scanner.Dir())
	s.scan, err = scanner.Scan(ctx, s.dataset)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", scanner.Dir(), err)
	}
	logger.Info("scan complete",
		"dir", scanner.Dir(),
		"files", s.scan.Loaded(),
		"targets", len(s.dataset),
		"readings", s.dataset.ReadingCount())

	return s, nil
}
