package progress

import (
	"bytes"
	"io"
	"strings"
	"testing"
	"time"
)

func TestNewReporterInCI(t *testing.T) {
	t.Setenv("CI", "true")
	if _, ok := NewReporter(io.Discard).(*CIReporter); !ok {
		t.Error("expected CIReporter when CI is set")
	}
}

func TestNewReporterInTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	if _, ok := NewReporter(io.Discard).(*TerminalReporter); !ok {
		t.Error("expected TerminalReporter outside CI")
	}
}

func TestCIReporterLines(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{w: &buf}
	r.Start("Analyzing Rivertown Town Council")
	r.Update("analysis: 1200 in / 3400 out tokens")
	r.Finish("Created version 1")

	out := buf.String()
	for _, want := range []string{"Analyzing Rivertown Town Council\n", "] analysis: 1200 in / 3400 out tokens\n", "Created version 1\n"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestTerminalReporterStops(t *testing.T) {
	var buf bytes.Buffer
	r := &TerminalReporter{w: &buf}
	r.Update("ignored before start")
	r.Start("Analyzing")
	time.Sleep(3 * spinInterval)
	r.Update("Still analyzing")
	r.Finish("Done")
	r.Finish("")

	if !strings.Contains(buf.String(), "Done") {
		t.Errorf("finish message not written: %q", buf.String())
	}
}
