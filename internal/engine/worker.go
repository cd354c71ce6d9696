package engine

import (
	"context"
	"errors"
	"sync"

	"linelex/token"
)

// Result is delivered by a Worker after a pass completes.
type Result struct {
	Version int
	Tokens  []token.Token
	Err     error
}

type snapshot struct {
	version  int
	document string
	gen      uint64
}

// Worker runs passes for one engine on a background goroutine. Scheduling a
// new snapshot cancels the running pass; snapshots queued behind it
// collapse into the latest one.
type Worker struct {
	engine   *Engine
	queue    chan snapshot
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	onResult func(Result)

	mu      sync.Mutex
	cancel  context.CancelFunc
	version int
}

// NewWorker creates a worker with room for queueSize waiting snapshots.
// onResult is called on the worker goroutine.
func NewWorker(e *Engine, queueSize int, onResult func(Result)) *Worker {
	if queueSize < 1 {
		queueSize = 1
	}
	return &Worker{
		engine:   e,
		queue:    make(chan snapshot, queueSize),
		stopChan: make(chan struct{}),
		onResult: onResult,
	}
}

// Run starts the worker loop.
func (w *Worker) Run() {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case snap := <-w.queue:
				w.execute(w.latest(snap))
			case <-w.stopChan:
				return
			}
		}
	}()
}

// latest drains the queue and keeps the newest snapshot.
func (w *Worker) latest(snap snapshot) snapshot {
	for {
		select {
		case next := <-w.queue:
			snap = next
		default:
			return snap
		}
	}
}

func (w *Worker) execute(snap snapshot) {
	ctx, cancel := context.WithCancel(context.Background())
	w.mu.Lock()
	if snap.version < w.version {
		w.mu.Unlock()
		cancel()
		return
	}
	w.cancel = cancel
	w.mu.Unlock()

	tokens, err := w.engine.retokenizeSnapshot(ctx, snap.document, snap.gen)

	w.mu.Lock()
	w.cancel = nil
	superseded := snap.version < w.version
	w.mu.Unlock()
	cancel()

	if superseded || errors.Is(err, context.Canceled) || errors.Is(err, ErrStale) {
		log.Debugf("engine %s: pass for version %d superseded", w.engine.id, snap.version)
		return
	}
	if w.onResult != nil {
		w.onResult(Result{Version: snap.version, Tokens: tokens, Err: err})
	}
}

// Schedule queues document as version of the text the engine has been told
// about. Edits must be reported to the engine before scheduling.
func (w *Worker) Schedule(version int, document string) {
	w.mu.Lock()
	if version > w.version {
		w.version = version
	}
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	snap := snapshot{version: version, document: document, gen: w.engine.cache.Generation()}
	for {
		select {
		case <-w.stopChan:
			return
		case w.queue <- snap:
			return
		default:
			// Full: drop the oldest waiting snapshot.
			select {
			case <-w.queue:
			default:
			}
		}
	}
}

// Stop cancels the running pass and waits for the loop to exit.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if w.cancel != nil {
			w.cancel()
		}
		w.mu.Unlock()
		close(w.stopChan)
	})
	w.wg.Wait()
}
