package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// CLIProgressReporter shows a spinner with the number of scanned files.
// It is safe for concurrent use by a parallel scan.
type CLIProgressReporter struct {
	mu        sync.Mutex
	w         io.Writer
	bar       *progressbar.ProgressBar
	startTime time.Time
	used      int
}

// NewCLIProgressReporter creates a reporter writing to w (normally stderr).
func NewCLIProgressReporter(w io.Writer) *CLIProgressReporter {
	return &CLIProgressReporter{w: w}
}

func (c *CLIProgressReporter) OnScanStart(root string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.used = 0
	c.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Scanning files"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

func (c *CLIProgressReporter) OnFileScanned(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar != nil {
		_ = c.bar.Add(1)
	}
}

func (c *CLIProgressReporter) OnExtensionUsed(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.used++
	if c.bar != nil {
		c.bar.Describe(fmt.Sprintf("Scanning files (%d extensions used)", c.used))
	}
}

func (c *CLIProgressReporter) OnScanComplete(scannedFiles, usedExtensions int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	c.bar = nil

	elapsed := time.Since(c.startTime)
	fmt.Fprintf(c.w, "Scanned %d files in %.1fs, %d extensions used\n", scannedFiles, elapsed.Seconds(), usedExtensions)
}

// OnScanError clears the spinner so the error is the only line left.
func (c *CLIProgressReporter) OnScanError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bar == nil {
		return
	}
	_ = c.bar.Finish()
	c.bar = nil
}
