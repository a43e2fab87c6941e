package logger

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// resetAfter restores the package-level logger state once the test ends.
func resetAfter(t *testing.T) *bytes.Buffer {
	t.Helper()
	t.Cleanup(func() {
		SetVerbose(false)
		SetOutput(os.Stderr)
	})
	var buf bytes.Buffer
	SetOutput(&buf)
	return &buf
}

func TestSetVerbose_Toggles(t *testing.T) {
	resetAfter(t)

	SetVerbose(false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(true)

	Debug("chunked %s into %d chunks", "handbook.md", 12)

	assert.Equal(t, "[DEBUG] chunked handbook.md into 12 chunks\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(false)

	Debug("embedding batch of %d chunks", 32)

	assert.Zero(t, buf.Len())
}

func TestSection(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(true)

	Section("Retrieval")

	assert.Equal(t, "\n=== Retrieval ===\n", buf.String())
}

func TestInfo(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(true)

	Info("retrieved %d chunks for role %s", 5, "EMPLOYEE")

	assert.Equal(t, "[INFO] retrieved 5 chunks for role EMPLOYEE\n", buf.String())
}

func TestWarn(t *testing.T) {
	buf := resetAfter(t)
	SetVerbose(true)

	Warn("retrieval degraded, answering without context")

	assert.Equal(t, "[WARN] retrieval degraded, answering without context\n", buf.String())
}

func TestConcurrentAccess(t *testing.T) {
	resetAfter(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			SetVerbose(true)
			Debug("ingesting document %d", n)
			IsVerbose()
			SetVerbose(false)
		}(i)
	}
	wg.Wait()
}
