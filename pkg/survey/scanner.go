package survey

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SnapshotExt is the only file extension the scanner loads.
const SnapshotExt = ".csv"

// FileResult records the outcome for a single snapshot file.
type FileResult struct {
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
	Skipped   bool      `json:"skipped"`
	Stats     LoadStats `json:"stats"`
}

// ScanResult summarises a directory scan.
type ScanResult struct {
	Dir   string       `json:"dir"`
	Files []FileResult `json:"files"`
}

// Loaded returns the number of snapshot files that were read.
func (r *ScanResult) Loaded() int {
	n := 0
	for _, f := range r.Files {
		if !f.Skipped {
			n++
		}
	}
	return n
}

// Scanner loads every snapshot in a directory into a dataset.
type Scanner struct {
	dir       string
	processed map[time.Time]bool
	logger    *slog.Logger
}

// ScannerOption configures a Scanner.
type ScannerOption func(*Scanner)

// WithProcessed marks snapshot times that must not be loaded again.
// The scanner consults this set but never adds to it.
func WithProcessed(times []time.Time) ScannerOption {
	return func(s *Scanner) {
		for _, ts := range times {
			s.processed[ts] = true
		}
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewScanner creates a scanner over dir. An empty dir means the working directory.
func NewScanner(dir string, opts ...ScannerOption) *Scanner {
	if dir == "" {
		dir = "."
	}
	s := &Scanner{
		dir:       dir,
		processed: make(map[time.Time]bool),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dir returns the directory being scanned.
func (s *Scanner) Dir() string {
	return s.dir
}

// Processed reports whether ts is in the processed set.
func (s *Scanner) Processed(ts time.Time) bool {
	return s.processed[ts]
}

// Snapshots lists the snapshot files in the directory without loading them.
// Subdirectories are not descended into.
func (s *Scanner) Snapshots() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", s.dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != SnapshotExt {
			continue
		}
		paths = append(paths, filepath.Join(s.dir, entry.Name()))
	}
	return paths, nil
}

// Scan loads every snapshot into ds. The first failing file aborts the scan.
func (s *Scanner) Scan(ctx context.Context, ds Dataset) (*ScanResult, error) {
	paths, err := s.Snapshots()
	if err != nil {
		return nil, err
	}

	result := &ScanResult{Dir: s.dir}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		stem := strings.TrimSuffix(filepath.Base(path), SnapshotExt)
		ts, err := ParseTimestamp(stem)
		if err != nil {
			return result, fmt.Errorf("%s: %w", path, err)
		}

		if s.processed[ts] {
			s.logger.Info("skipping processed snapshot", "file", path, "timestamp", ts)
			result.Files = append(result.Files, FileResult{Path: path, Timestamp: ts, Skipped: true})
			continue
		}

		stats, err := s.loadFile(path, ts, ds)
		if err != nil {
			return result, err
		}

		s.logger.Debug("loaded snapshot",
			"file", path,
			"timestamp", ts,
			"rows", stats.Rows,
			"loaded", stats.Loaded,
			"skipped", stats.Skipped)

		result.Files = append(result.Files, FileResult{Path: path, Timestamp: ts, Stats: stats})
	}

	return result, nil
}

func (s *Scanner) loadFile(path string, ts time.Time, ds Dataset) (LoadStats, error) {
	f, err := os.Open(path) // #nosec G304 -- snapshot paths come from the configured data directory
	if err != nil {
		return LoadStats{}, fmt.Errorf("opening snapshot %s: %w", path, err)
	}
	defer f.Close()

	stats, err := ds.Load(f, ts)
	if err != nil {
		return stats, fmt.Errorf("loading %s: %w", path, err)
	}
	return stats, nil
}
