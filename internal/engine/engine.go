// Package engine coordinates the lexer and the syntax cache for one
// document: it turns edit notifications into cache invalidations and
// re-lexes only the lines whose tokens can have changed.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"linelex/internal/cache"
	"linelex/internal/language"
	"linelex/internal/lexer"
	"linelex/token"
)

var log = commonlog.GetLogger("linelex.engine")

var (
	// ErrStale is returned by a pass that an edit overtook. The lines it
	// had not stored yet are pending again.
	ErrStale = errors.New("tokenization pass overtaken by an edit")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("engine closed")
)

// Stats counts work done by an engine.
type Stats struct {
	LinesLexed int `json:"lines_lexed" yaml:"lines_lexed"`
	Passes     int `json:"passes" yaml:"passes"`
	Fallbacks  int `json:"fallbacks" yaml:"fallbacks"`
}

// Engine owns the token cache of one document. Edit notifications may
// arrive from any goroutine while a pass runs; passes themselves are
// serialized.
type Engine struct {
	id      string
	scanner *lexer.Scanner
	cache   *cache.Cache
	tracer  trace.Tracer

	pass sync.Mutex

	mu         sync.Mutex
	needsReset bool
	closed     bool
	stats      Stats
}

// New returns an engine lexing lang. A nil lang selects the generic
// profile.
func New(lang *language.Language) *Engine {
	e := &Engine{
		id:      uuid.NewString(),
		scanner: lexer.New(lang),
		cache:   cache.New(),
		tracer:  otel.Tracer("linelex/engine"),
	}
	log.Debugf("engine %s: created for %s", e.id, e.scanner.Language().Name)
	return e
}

// ID identifies the engine in logs and traces.
func (e *Engine) ID() string {
	return e.id
}

// Language returns the profile the engine lexes.
func (e *Engine) Language() *language.Language {
	return e.scanner.Language()
}

// Initialize sizes the cache for document and marks every line dirty
// without lexing anything.
func (e *Engine) Initialize(document string) {
	n := len(lexer.Lines(document))
	e.cache.Reset(n)
	e.cache.MarkDirty(0, n-1)
	e.clearReset()
}

// TokenizeDocument lexes every line of document from scratch.
func (e *Engine) TokenizeDocument(ctx context.Context, document string) ([]token.Token, error) {
	lines := lexer.Lines(document)
	ctx, span := e.startSpan(ctx, "TokenizeDocument", len(lines))
	defer span.End()

	e.pass.Lock()
	defer e.pass.Unlock()

	if e.isClosed() {
		return nil, ErrClosed
	}
	e.clearReset()
	_, gen := e.cache.Restart(len(lines))
	tokens, err := e.lexAll(ctx, lines, gen)
	recordError(span, err)
	return tokens, err
}

// lexAll lexes every line for a pass started by Restart or ResetDirty at
// generation gen.
func (e *Engine) lexAll(ctx context.Context, lines []string, gen uint64) ([]token.Token, error) {
	var (
		state  = token.Normal
		offset int
		lexed  int
	)
	defer func() { e.record(lexed, 0) }()

	for i, text := range lines {
		if err := ctx.Err(); err != nil {
			e.cache.Requeue(gen, []cache.Region{{Start: i, End: len(lines) - 1}})
			return e.cache.Tokens(), fmt.Errorf("tokenize document: %w", err)
		}
		toks, end := e.scanner.ScanLine(text, i, offset, state)
		if !e.cache.Store(gen, i, entry(text, toks, state, end)) {
			return e.cache.Tokens(), ErrStale
		}
		lexed++
		state = end
		offset += len(text) + 1
	}
	e.cache.Finish(gen)
	e.record(0, 1)
	return e.cache.Tokens(), nil
}

// RetokenizeDirtyRegions lexes the pending dirty regions of document and
// returns the full token list. Lexing continues past the end of a region
// until a line's start state matches what the cache already holds for it.
// With nothing pending it lexes nothing.
func (e *Engine) RetokenizeDirtyRegions(ctx context.Context, document string) ([]token.Token, error) {
	return e.retokenizeSnapshot(ctx, document, e.cache.Generation())
}

// retokenizeSnapshot runs a pass over document, which reflects every edit
// up to cache generation gen. A later edit makes the pass fail with
// ErrStale instead of storing lines of an outdated document.
func (e *Engine) retokenizeSnapshot(ctx context.Context, document string, gen uint64) ([]token.Token, error) {
	lines := lexer.Lines(document)
	ctx, span := e.startSpan(ctx, "RetokenizeDirtyRegions", len(lines))
	defer span.End()

	e.pass.Lock()
	defer e.pass.Unlock()

	if e.isClosed() {
		return nil, ErrClosed
	}

	reset := e.takeReset()
	if reason := e.fallbackReason(reset, len(lines)); reason != "" {
		_, next, ok := e.cache.ResetDirty(gen, len(lines))
		if !ok {
			if reset {
				e.mu.Lock()
				e.needsReset = true
				e.mu.Unlock()
			}
			return e.cache.Tokens(), ErrStale
		}
		log.Warningf("engine %s: %s, tokenizing whole document", e.id, reason)
		span.AddEvent("fallback", trace.WithAttributes(attribute.String("reason", reason)))
		e.mu.Lock()
		e.stats.Fallbacks++
		e.mu.Unlock()
		tokens, err := e.lexAll(ctx, lines, next)
		recordError(span, err)
		return tokens, err
	}

	tokens, err := e.retokenize(ctx, lines, gen)
	recordError(span, err)
	return tokens, err
}

func (e *Engine) retokenize(ctx context.Context, lines []string, snapshot uint64) ([]token.Token, error) {
	regions, gen := e.cache.PopDirty()
	if gen != snapshot {
		e.cache.Requeue(gen, regions)
		return e.cache.Tokens(), ErrStale
	}
	if len(regions) == 0 {
		e.cache.Finish(gen)
		return e.cache.Tokens(), nil
	}

	offsets := lineOffsets(lines)
	lexed := 0
	defer func() { e.record(lexed, 0) }()

	next := 0
	for ri, r := range regions {
		start := max(r.Start, next)
		if start > r.End {
			continue
		}
		state := token.Normal
		if start > 0 {
			if prev, ok := e.cache.Peek(start - 1); ok {
				state = prev.EndState
			}
		}

		l := start
		for ; l < len(lines); l++ {
			if err := ctx.Err(); err != nil {
				rest := append([]cache.Region{{Start: l, End: max(l, r.End)}}, regions[ri+1:]...)
				e.cache.Requeue(gen, rest)
				return e.cache.Tokens(), fmt.Errorf("retokenize: %w", err)
			}
			if l > r.End {
				if cached, ok := e.cache.Entry(l); ok && cached.StartState == state && cached.Content == lines[l] {
					break
				}
			}
			toks, end := e.scanner.ScanLine(lines[l], l, offsets[l], state)
			if !e.cache.Store(gen, l, entry(lines[l], toks, state, end)) {
				return e.cache.Tokens(), ErrStale
			}
			lexed++
			state = end
		}
		next = l
	}

	e.cache.Finish(gen)
	e.record(0, 1)
	log.Debugf("engine %s: pass over %v lexed %d lines", e.id, regions, lexed)
	return e.cache.Tokens(), nil
}

// fallbackReason explains why the next pass must start from scratch, or
// returns "".
func (e *Engine) fallbackReason(reset bool, lineCount int) string {
	if reset {
		return "edit did not fit the cache"
	}
	if n := e.cache.LineCount(); n != lineCount {
		return fmt.Sprintf("document has %d lines, cache has %d", lineCount, n)
	}
	return ""
}

// Tokens returns the current tokens, including those of lines waiting to be
// lexed again.
func (e *Engine) Tokens() []token.Token {
	return e.cache.Tokens()
}

// Stream wraps Tokens for line-indexed lookup.
func (e *Engine) Stream() *token.Stream {
	return token.NewStream(e.cache.Tokens())
}

// Dirty returns the regions waiting for the next pass.
func (e *Engine) Dirty() []cache.Region {
	return e.cache.Dirty()
}

// Stats returns the counters accumulated so far.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Close drops the cache. Later passes fail with ErrClosed.
func (e *Engine) Close() {
	e.pass.Lock()
	defer e.pass.Unlock()
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.cache.Reset(0)
	log.Debugf("engine %s: closed", e.id)
}

func (e *Engine) clearReset() {
	e.mu.Lock()
	e.needsReset = false
	e.mu.Unlock()
}

// takeReset reports and clears a reset flagged by a failed edit.
func (e *Engine) takeReset() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	reset := e.needsReset
	e.needsReset = false
	return reset
}

func (e *Engine) isClosed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

func (e *Engine) record(lines, passes int) {
	e.mu.Lock()
	e.stats.LinesLexed += lines
	e.stats.Passes += passes
	e.mu.Unlock()
}

func (e *Engine) startSpan(ctx context.Context, name string, lines int) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("engine.id", e.id),
		attribute.String("language", e.scanner.Language().Name),
		attribute.Int("document.lines", lines),
	))
}

func recordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func entry(text string, toks []token.Token, start, end token.State) cache.Entry {
	return cache.Entry{
		Content:    text,
		Tokens:     toks,
		StartState: start,
		EndState:   end,
		Valid:      true,
	}
}

func lineOffsets(lines []string) []int {
	offsets := make([]int, len(lines))
	offset := 0
	for i, text := range lines {
		offsets[i] = offset
		offset += len(text) + 1
	}
	return offsets
}
