package progress

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// lockedBuffer is a bytes.Buffer safe for the spinner goroutine
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Len()
}

func TestNewSpinner(t *testing.T) {
	var buf lockedBuffer
	spinner := NewSpinner(&buf, "Checking trivy version")
	t.Cleanup(spinner.Clear)

	require.NotNil(t, spinner)

	initial := buf.Len()
	assert.NotZero(t, initial, "blank state should render immediately")

	assert.Eventually(t, func() bool {
		return buf.Len() > initial
	}, 2*time.Second, 20*time.Millisecond, "spinner should keep drawing frames")
}

func TestSpinnerClear(t *testing.T) {
	var buf lockedBuffer
	spinner := NewSpinner(&buf, "Checking trivy version")

	spinner.Clear()
	written := buf.Len()

	// No frames after Clear, and a second Clear is a no-op
	time.Sleep(3 * tick)
	spinner.Clear()
	assert.Equal(t, written, buf.Len())
}

func TestNilSpinner(t *testing.T) {
	var spinner *Spinner

	assert.NotPanics(t, spinner.Clear)
}
