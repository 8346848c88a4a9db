package output

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	require.NotNil(t, f)
	assert.Equal(t, "text", f.Name())
}

func TestTextFormatter_Format(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), createTestReport(t), &buf))

	out := buf.String()
	assert.Contains(t, out, "=== Survey Displacement Report ===")
	assert.Contains(t, out, "Construction start: 2023-03-12 00:00")
	assert.Contains(t, out, "Trigger levels: amber 8 mm, red 15 mm")
	assert.Contains(t, out, "[AMBER] SO5.2 (north wall)")
	assert.Contains(t, out, "Latest: 2023-04-02 14:00 horizontal 9.00 mm, vertical -1.00 mm")
	assert.Contains(t, out, "[GREEN] SO5.3")
	assert.Contains(t, out, "Summary: 2 targets, 1 amber, 0 red")
	assert.NotContains(t, out, "dX=")
	assert.NotContains(t, out, "Files loaded")
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), createTestReport(t), &buf))

	out := buf.String()
	assert.Contains(t, out, "2023-01-15 09:30 before dX=1.00 dY=0.00 dZ=0.20 h=1.00 green")
	assert.Contains(t, out, "2023-04-02 14:00 after  dX=9.00")
	assert.Contains(t, out, "Files loaded: 2 (1 rows skipped)")
	assert.Contains(t, out, "Duration: 2s")
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})

	var buf bytes.Buffer
	require.NoError(t, f.Format(context.Background(), createTestReport(t), &buf))

	assert.Equal(t, "survmon: 2 targets, 1 amber, 0 red\n", buf.String())
}
