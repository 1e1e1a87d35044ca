package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// capture redirects logging into a buffer for the duration of a test.
func capture(t *testing.T, verbose bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verbose)
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestVerboseToggle(t *testing.T) {
	capture(t, false)

	assert.False(t, IsVerbose())
	SetVerbose(true)
	assert.True(t, IsVerbose())
	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestLevels_PrefixAndFormatting(t *testing.T) {
	tests := []struct {
		name string
		log  func()
		want string
	}{
		{
			name: "debug position save",
			log:  func() { Debug("Position saved %s@%.4f", "ch2.html", 0.3172) },
			want: "[DEBUG] Position saved ch2.html@0.3172\n",
		},
		{
			name: "info open",
			log:  func() { Info("Opening %q (%s)", "Moby-Dick", "/books/moby-dick") },
			want: "[INFO] Opening \"Moby-Dick\" (/books/moby-dick)\n",
		},
		{
			name: "warn restore failure",
			log:  func() { Warn("Restoring position failed: %v", os.ErrNotExist) },
			want: "[WARN] Restoring position failed: file does not exist\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := capture(t, true)
			tt.log()
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestSection_MarksSessionPhases(t *testing.T) {
	buf := capture(t, true)

	Section("Open Publication")
	Info("Publication open, position=<nil> bookmarked=false")
	Section("Close Publication")

	out := buf.String()
	assert.Contains(t, out, "\n=== Open Publication ===\n")
	assert.Contains(t, out, "\n=== Close Publication ===\n")
	assert.Contains(t, out, "[INFO] Publication open")
}

func TestSilentWhenNotVerbose(t *testing.T) {
	buf := capture(t, false)

	Section("Open Publication")
	Debug("Bookmark %s created", "b1")
	Info("never shown")
	Warn("never shown")

	assert.Zero(t, buf.Len())
}

func TestConcurrentLogging(t *testing.T) {
	capture(t, true)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			Debug("location event %d", n)
			IsVerbose()
			SetVerbose(true)
		}(i)
	}
	wg.Wait()
}
