package engine

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerDeliversLatestVersion(t *testing.T) {
	e := newEngine("go")
	results := make(chan Result, 16)
	w := NewWorker(e, 2, func(r Result) { results <- r })
	w.Run()
	defer w.Stop()

	lines := numberedLines(50)
	doc := strings.Join(lines, "\n")
	e.Initialize(doc)
	w.Schedule(1, doc)

	for v := 2; v <= 10; v++ {
		lines[v] = fmt.Sprintf("/* v%d", v)
		doc = strings.Join(lines, "\n")
		require.NoError(t, e.HandleEdit(v, lines[v]))
		w.Schedule(v, doc)
	}

	timeout := time.After(2 * time.Second)
	for {
		select {
		case r := <-results:
			require.NoError(t, r.Err)
			if r.Version < 10 {
				continue
			}
			requireSameTokens(t, fullScan("go", doc), r.Tokens)
			return
		case <-timeout:
			t.Fatal("no result for the latest version")
		}
	}
}

func TestWorkerStop(t *testing.T) {
	e := newEngine("go")
	calls := 0
	w := NewWorker(e, 0, func(Result) { calls++ })
	w.Run()
	w.Stop()
	w.Stop()

	// Scheduling after Stop neither blocks nor runs.
	done := make(chan struct{})
	go func() {
		w.Schedule(1, "x")
		w.Schedule(2, "y")
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Schedule blocked after Stop")
	}
	assert.Zero(t, calls)
}
