package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const snapshotHeader = "Target,Location,Base E,Base N,Base H,Meas E,Meas N,Meas H\n"

// writeFixture creates a data directory with two snapshots either side of
// the construction start and a config pointing at it.
func writeFixture(t *testing.T, extra string) (configPath, dataDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	dataDir = filepath.Join(tmpDir, "surveys")
	require.NoError(t, os.Mkdir(dataDir, 0755))

	writeFile(t, filepath.Join(dataDir, "20230115_0930.csv"), snapshotHeader+
		"SO5.2,North wall,100.000,200.000,10.000,100.001,200.0005,10.0002\n"+
		"SO5.3,South wall,300.000,400.000,20.000,NULL,NULL,NULL\n")
	writeFile(t, filepath.Join(dataDir, "20230402_1400.csv"), snapshotHeader+
		"SO5.2,North wall,100.000,200.000,10.000,100.003,200.000,10.000\n"+
		"SO5.3,South wall,300.000,400.000,20.000,300.001,400.000,20.000\n")

	configPath = filepath.Join(tmpDir, "survmon.yaml")
	writeFile(t, configPath, "data_dir: "+dataDir+`
target: SO5.2
construction_start: "2023-03-12 00:00"
trigger_levels:
  amber: 8
  red: 15
`+extra)
	return configPath, dataDir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func resetExitCode(t *testing.T) {
	t.Helper()
	ExitCode = 0
	t.Cleanup(func() { ExitCode = 0 })
}

func TestNewPlotCommand(t *testing.T) {
	cmd := NewPlotCommand(&GlobalOptions{})

	assert.Equal(t, "plot [target]", cmd.Use)
	for _, flag := range []string{"format", "out", "size", "no-open"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestNewReportCommand(t *testing.T) {
	cmd := NewReportCommand(&GlobalOptions{})

	assert.Equal(t, "report", cmd.Use)
	for _, flag := range []string{"output", "file", "target", "verbose", "quiet"} {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "missing flag %s", flag)
	}
}

func TestNewValidateCommand(t *testing.T) {
	cmd := NewValidateCommand()

	assert.Equal(t, "validate <config-file>", cmd.Use)
	assert.Contains(t, cmd.Long, "Validate")
}

func TestNewVersionCommand(t *testing.T) {
	cmd := NewVersionCommand()
	assert.Equal(t, "version", cmd.Use)

	var buf bytes.Buffer
	cmd.SetOut(&buf)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "survmon dev\n", buf.String())
}

func TestRunPlot_WritesFile(t *testing.T) {
	configPath, _ := writeFixture(t, "")
	out := filepath.Join(t.TempDir(), "so52.svg")

	cmd := NewPlotCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"--format", "svg", "--out", out})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "(1 before, 1 after construction)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<svg")
	assert.Contains(t, string(data), "SO5.2")
}

func TestRunPlot_TargetArgument(t *testing.T) {
	configPath, _ := writeFixture(t, "")

	cmd := NewPlotCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"SO5.3", "--no-open", "--format", "html"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "<title>SO5.3")
	// the January SO5.3 row has no measurement
	assert.Equal(t, 1, strings.Count(buf.String(), `<tr class="after"`))
	assert.Equal(t, 0, strings.Count(buf.String(), `<tr class="before"`))
}

func TestRunPlot_PNGToStdout(t *testing.T) {
	configPath, _ := writeFixture(t, "plot:\n  format: png\n  size: 400\n")

	cmd := NewPlotCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"--no-open"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))
}

func TestRunPlot_UnknownTarget(t *testing.T) {
	configPath, _ := writeFixture(t, "")

	cmd := NewPlotCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"XX9", "--no-open"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "target not found")
}

func TestRunPlot_BadSnapshotName(t *testing.T) {
	configPath, dataDir := writeFixture(t, "")
	writeFile(t, filepath.Join(dataDir, "notes.csv"), snapshotHeader)

	cmd := NewPlotCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"--no-open"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid snapshot file name")
}

func TestRunReport_Text(t *testing.T) {
	resetExitCode(t)
	configPath, _ := writeFixture(t, "")

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "[GREEN] SO5.2 (North wall)")
	assert.Contains(t, buf.String(), "Summary: 2 targets, 0 amber, 0 red")
	assert.Equal(t, 0, ExitCode)
}

func TestRunReport_Breach(t *testing.T) {
	resetExitCode(t)
	configPath, dataDir := writeFixture(t, "")
	writeFile(t, filepath.Join(dataDir, "20230501_0800.csv"), snapshotHeader+
		"SO5.2,North wall,100.000,200.000,10.000,100.012,200.009,10.000\n")

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"--target", "SO5.2", "-q"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	assert.Equal(t, "survmon: 1 targets, 0 amber, 1 red\n", buf.String())
	assert.Equal(t, 1, ExitCode)
}

func TestRunReport_SkipDates(t *testing.T) {
	resetExitCode(t)
	configPath, _ := writeFixture(t, "skip_dates:\n  - \"2023-04-02 14:00\"\n")

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"-o", "json", "-q"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	// only the January snapshot loads, and SO5.3 has no reading in it
	assert.Contains(t, buf.String(), `"targets_reported": 1`)
	assert.Contains(t, buf.String(), `"files_loaded": 1`)
}

func TestRunReport_JSONMetadata(t *testing.T) {
	resetExitCode(t)
	SetClock(clockwork.NewFakeClockAt(time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)))
	t.Cleanup(func() { SetClock(nil) })
	configPath, dataDir := writeFixture(t, "")

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"-o", "json"})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, `"generated_at": "2023-06-01T12:00:00Z"`)
	assert.Contains(t, out, `"duration": 0`)
	assert.Contains(t, out, `"data_dir": "`+dataDir+`"`)
	assert.Contains(t, out, `"config_file": "`+configPath+`"`)
}

func TestRunReport_XLSX(t *testing.T) {
	resetExitCode(t)
	configPath, _ := writeFixture(t, "")
	out := filepath.Join(t.TempDir(), "report.xlsx")

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"-o", "xlsx", "-f", out})
	cmd.SetOut(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())

	book, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer book.Close()
	rows, err := book.GetRows("Readings")
	require.NoError(t, err)
	assert.Len(t, rows, 4)
}

// failingCloseFile accepts writes but fails to close, like a full disk
// discovered on flush.
type failingCloseFile struct {
	bytes.Buffer
}

func (f *failingCloseFile) Close() error {
	return errors.New("no space left on device")
}

func TestRunReport_CloseErrorIsReported(t *testing.T) {
	resetExitCode(t)
	configPath, _ := writeFixture(t, "")

	written := &failingCloseFile{}
	createFile = func(path string) (io.WriteCloser, error) { return written, nil }
	t.Cleanup(func() {
		createFile = func(path string) (io.WriteCloser, error) { return os.Create(path) }
	})

	cmd := NewReportCommand(&GlobalOptions{ConfigFile: configPath})
	cmd.SetArgs([]string{"-o", "xlsx", "-f", "report.xlsx"})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closing report.xlsx")
	assert.Contains(t, err.Error(), "no space left on device")
	assert.NotZero(t, written.Len())
}

func TestRunReport_InvalidFormat(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"-o", "csv"}, "unknown output format"},
		{[]string{"-o", "xlsx"}, "requires --file"},
	}

	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			cmd := NewReportCommand(&GlobalOptions{ConfigFile: "/nonexistent/survmon.yaml"})
			cmd.SetArgs(tt.args)
			cmd.SetOut(&bytes.Buffer{})

			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRunValidate_Success(t *testing.T) {
	configPath, dataDir := writeFixture(t, "skip_dates:\n  - \"2023-01-15 09:30\"\n")
	writeFile(t, filepath.Join(dataDir, "readme.csv"), "")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	var buf bytes.Buffer
	cmd.SetOut(&buf)

	require.NoError(t, cmd.Execute())
	out := buf.String()
	assert.Contains(t, out, "Configuration valid!")
	assert.Contains(t, out, "Construction start: 2023-03-12 00:00")
	assert.Contains(t, out, "Snapshot files matched: 3")
	assert.Contains(t, out, "20230115_0930.csv (skipped)")
	assert.Contains(t, out, "readme.csv (invalid name)")
}

func TestRunValidate_Invalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "bad.yaml")
	writeFile(t, configPath, "target: SO5.2\ntrigger_levels:\n  amber: 10\n  red: 5\n")

	cmd := NewValidateCommand()
	cmd.SetArgs([]string{configPath})
	cmd.SetOut(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
	assert.Contains(t, err.Error(), "trigger_levels.red")
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLogger(&buf, "debug", "json")
	require.NoError(t, err)
	logger.Debug("hello", "file", "a.csv")
	assert.Contains(t, buf.String(), `"msg":"hello"`)

	_, err = NewLogger(&buf, "loud", "text")
	assert.ErrorContains(t, err, "invalid log level")

	_, err = NewLogger(&buf, "info", "xml")
	assert.ErrorContains(t, err, "invalid log format")
}
