package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// spinInterval is how often the terminal spinner advances while waiting on
// the reasoning service.
const spinInterval = 120 * time.Millisecond

// Reporter provides feedback while a one-shot command waits on the model.
type Reporter interface {
	Start(message string)
	Update(message string)
	Finish(message string)
}

// NewReporter returns a TerminalReporter if running in an interactive terminal,
// or a CIReporter if the CI environment variable is set. Output goes to w.
func NewReporter(w io.Writer) Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{w: w}
	}
	return &TerminalReporter{w: w}
}

// TerminalReporter displays an indeterminate spinner in the terminal.
type TerminalReporter struct {
	w io.Writer

	mu   sync.Mutex
	bar  *progressbar.ProgressBar
	stop chan struct{}
	done chan struct{}
}

func (r *TerminalReporter) Start(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		return
	}
	r.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription(message),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionClearOnFinish(),
	)
	r.stop = make(chan struct{})
	r.done = make(chan struct{})
	go r.spin(r.bar, r.stop, r.done)
}

func (r *TerminalReporter) spin(bar *progressbar.ProgressBar, stop, done chan struct{}) {
	defer close(done)
	t := time.NewTicker(spinInterval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			_ = bar.Add(1)
		}
	}
}

func (r *TerminalReporter) Update(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar != nil {
		r.bar.Describe(message)
	}
}

func (r *TerminalReporter) Finish(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.bar == nil {
		return
	}
	close(r.stop)
	<-r.done
	_ = r.bar.Finish()
	r.bar = nil
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	w     io.Writer
	start time.Time
}

func (r *CIReporter) Start(message string) {
	r.start = time.Now()
	fmt.Fprintln(r.w, message)
}

func (r *CIReporter) Update(message string) {
	fmt.Fprintf(r.w, "[%s] %s\n", time.Since(r.start).Round(time.Second), message)
}

func (r *CIReporter) Finish(message string) {
	if message != "" {
		fmt.Fprintln(r.w, message)
	}
}
