package app

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// SetupAppTest creates an app instance wired to buffered outputs for
// system-level tests.
func SetupAppTest(t *testing.T, config *Config) (*App, *bytes.Buffer, *SafeBuffer) {
	t.Helper()

	out := &bytes.Buffer{}
	logBuffer := &SafeBuffer{}
	config.LogLevel = "debug"
	testApp := NewAppWithLogOutput(out, logBuffer, config)

	t.Cleanup(func() {
		if os.Getenv("HORDE_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, out, logBuffer
}
