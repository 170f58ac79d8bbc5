package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sandpour/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir         string
	ticksFile   *os.File
	windowsFile *os.File
	perfFile    *os.File

	// Track if headers have been written
	ticksHeaderWritten   bool
	windowsHeaderWritten bool
	perfHeaderWritten    bool
}

// NewOutputManager creates a new output manager and initializes the output directory.
// Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	var err error
	if om.ticksFile, err = os.Create(filepath.Join(dir, "ticks.csv")); err != nil {
		return nil, fmt.Errorf("creating ticks.csv: %w", err)
	}
	if om.windowsFile, err = os.Create(filepath.Join(dir, "windows.csv")); err != nil {
		om.Close()
		return nil, fmt.Errorf("creating windows.csv: %w", err)
	}
	if om.perfFile, err = os.Create(filepath.Join(dir, "perf.csv")); err != nil {
		om.Close()
		return nil, fmt.Errorf("creating perf.csv: %w", err)
	}

	return om, nil
}

// writeRecords marshals records to f, writing the header only once.
func writeRecords[T any](f *os.File, headerWritten *bool, records []T) error {
	if len(records) == 0 {
		return nil
	}
	if !*headerWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, f); err != nil {
			return err
		}
		*headerWritten = true
		return nil
	}
	return gocsv.MarshalWithoutHeaders(records, f)
}

// WriteConfig saves the current configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteTicks appends per-tick records to ticks.csv.
func (om *OutputManager) WriteTicks(records []TickRecord) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.ticksFile, &om.ticksHeaderWritten, records); err != nil {
		return fmt.Errorf("writing ticks: %w", err)
	}
	return nil
}

// WriteWindows appends window stats to windows.csv.
func (om *OutputManager) WriteWindows(stats []WindowStats) error {
	if om == nil {
		return nil
	}
	if err := writeRecords(om.windowsFile, &om.windowsHeaderWritten, stats); err != nil {
		return fmt.Errorf("writing windows: %w", err)
	}
	return nil
}

// WritePerf writes a performance stats record to perf.csv.
func (om *OutputManager) WritePerf(stats PerfStats, windowEnd int64) error {
	if om == nil {
		return nil
	}
	records := []PerfStatsCSV{stats.ToCSV(windowEnd)}
	if err := writeRecords(om.perfFile, &om.perfHeaderWritten, records); err != nil {
		return fmt.Errorf("writing perf: %w", err)
	}
	return nil
}

// WritePaths writes sampled preview paths to path.csv in one go.
func (om *OutputManager) WritePaths(records []PathRecord) error {
	if om == nil {
		return nil
	}
	f, err := os.Create(filepath.Join(om.dir, "path.csv"))
	if err != nil {
		return fmt.Errorf("creating path.csv: %w", err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&records, f); err != nil {
		return fmt.Errorf("writing path: %w", err)
	}
	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error
	for _, f := range []*os.File{om.ticksFile, om.windowsFile, om.perfFile} {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
