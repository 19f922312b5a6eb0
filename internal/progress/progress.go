package progress

import (
	"io"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
)

// tick is how often the spinner advances a frame
const tick = 120 * time.Millisecond

// Spinner shows indeterminate progress while a short check runs.
// A nil *Spinner is valid and does nothing.
type Spinner struct {
	bar  *progressbar.ProgressBar
	once sync.Once
	stop chan struct{}
	done chan struct{}
}

// NewSpinner creates a spinner writing to w and starts animating it until
// Clear is called
func NewSpinner(w io.Writer, description string) *Spinner {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionSetWidth(10),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionEnableColorCodes(true),
	)

	s := &Spinner{
		bar:  bar,
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	go s.spin()

	return s
}

func (s *Spinner) spin() {
	defer close(s.done)

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			_ = s.bar.Add(1)
		}
	}
}

// Clear stops the animation and removes the spinner from the terminal.
// Further calls do nothing.
func (s *Spinner) Clear() {
	if s == nil {
		return
	}

	s.once.Do(func() {
		close(s.stop)
		<-s.done
		_ = s.bar.Clear()
	})
}
