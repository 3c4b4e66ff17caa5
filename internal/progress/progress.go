// Package progress draws a per-level progress bar on stderr.
package progress

import (
	"io"
	"sync"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"
)

const template = `{{string . "prefix"}} {{counters . }} {{bar . }} {{percent . }} {{speed . }}`

// Bar implements benchtypes.ProgressTracker with one bar per level.
type Bar struct {
	out io.Writer

	mu  sync.Mutex
	bar *pb.ProgressBar
}

// New returns a tracker drawing to out.
func New(out io.Writer) *Bar {
	return &Bar{out: out}
}

// Start begins a new bar for level.
func (b *Bar) Start(level, total int) {
	bar := pb.New(total)
	bar.SetWriter(b.out)
	bar.SetRefreshRate(125 * time.Millisecond)
	bar.SetTemplateString(template)
	bar.Set("prefix", color.New(color.FgGreen, color.Bold).Sprintf("L=%-3d", level))

	b.mu.Lock()
	b.bar = bar
	b.mu.Unlock()
	bar.Start()
}

// Increment advances the current bar by one upload.
func (b *Bar) Increment() {
	b.mu.Lock()
	bar := b.bar
	b.mu.Unlock()
	if bar != nil {
		bar.Increment()
	}
}

// Finish completes the current bar.
func (b *Bar) Finish() {
	b.mu.Lock()
	bar := b.bar
	b.bar = nil
	b.mu.Unlock()
	if bar != nil {
		bar.Finish()
	}
}

// Current returns the count of the bar in progress, or -1 between levels.
func (b *Bar) Current() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.bar == nil {
		return -1
	}
	return b.bar.Current()
}
