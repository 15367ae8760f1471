package progress

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"
)

// Indicator shows a spinner while the model works. On a non-TTY it prints
// nothing while running and only writes status lines.
// A nil *Indicator is valid and does nothing.
type Indicator struct {
	w       io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
}

// NewIndicator creates an Indicator writing to w.
func NewIndicator(w io.Writer, caps TerminalCapabilities) *Indicator {
	return &Indicator{
		w:       w,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins spinning with message as the suffix.
func (i *Indicator) Start(message string) {
	if i == nil || !i.caps.IsTTY {
		return
	}
	i.Stop()
	i.spin = spinner.New(spinner.CharSets[i.symbols.SpinnerSet], 100*time.Millisecond, spinner.WithWriter(i.w))
	i.spin.Suffix = " " + message
	if i.caps.SupportsColor {
		_ = i.spin.Color("cyan")
	}
	i.spin.Start()
}

// Stop clears the spinner line.
func (i *Indicator) Stop() {
	if i == nil || i.spin == nil {
		return
	}
	i.spin.Stop()
	i.spin = nil
}

// Succeed stops the spinner and prints message with a checkmark.
func (i *Indicator) Succeed(message string) {
	if i == nil {
		return
	}
	i.Stop()
	fmt.Fprintf(i.w, "%s %s\n", i.symbols.Checkmark, message)
}

// Fail stops the spinner and prints message with a failure marker.
func (i *Indicator) Fail(message string) {
	if i == nil {
		return
	}
	i.Stop()
	fmt.Fprintf(i.w, "%s %s\n", i.symbols.Failure, message)
}
