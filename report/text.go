package report

import (
	"bufio"
	"fmt"
	"io"

	"github.com/input-output-hk/catalyst-forge-libs/blobbench/benchtypes"
)

// Header is the first line of the text table.
const Header = "Threads, Average Push Duration (ms), Average Init & Push Duration (ms), Complete Duration (ms)"

// Text is a Reporter that writes the comma-separated table.
type Text struct {
	w *bufio.Writer
}

// NewText returns a text reporter writing to w.
func NewText(w io.Writer) *Text {
	return &Text{w: bufio.NewWriter(w)}
}

// Begin writes the header.
func (t *Text) Begin(benchtypes.RunConfig) error {
	if _, err := t.w.WriteString(Header + "\n"); err != nil {
		return err
	}
	return t.w.Flush()
}

// Level writes one row and flushes it.
func (t *Text) Level(r benchtypes.LevelResult) error {
	if _, err := fmt.Fprintf(t.w, "%d, %s, %s, %.1f\n",
		r.Concurrency, r.AvgSteady, r.AvgInit, benchtypes.Millis(r.Total)); err != nil {
		return err
	}
	return t.w.Flush()
}

// End flushes anything left.
func (t *Text) End() error {
	return t.w.Flush()
}

var _ benchtypes.Reporter = (*Text)(nil)
