// Package cache keeps per-line lexing results for one document and tracks
// which lines need to be lexed again.
//
// All state sits behind a single mutex. Exported methods take the lock;
// unexported helpers expect it to be held, so compound operations such as
// HandleDocumentChange reuse them without re-locking.
package cache

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/tliron/commonlog"

	"linelex/token"
)

var log = commonlog.GetLogger("linelex.cache")

// ErrEditOutOfRange is returned when an edit does not fit the cached
// document shape.
var ErrEditOutOfRange = errors.New("edit out of range")

// Entry is the lexing result for one line.
type Entry struct {
	Content    string
	Tokens     []token.Token
	StartState token.State
	EndState   token.State
	// Valid is false once the line has been marked dirty. Invalid entries
	// are kept for best-effort rendering until the line is lexed again.
	Valid bool
}

// Cache is safe for concurrent use.
type Cache struct {
	mu        sync.Mutex
	entries   map[int]*Entry
	lineCount int
	pending   []Region
	inflight  []Region
	gen       uint64
	snapshot  []token.Token
	fresh     bool
}

// New returns an empty cache for a document of zero lines.
func New() *Cache {
	return &Cache{entries: make(map[int]*Entry)}
}

// Reset drops every entry and region and sizes the cache for lineCount
// lines.
func (c *Cache) Reset(lineCount int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset(lineCount)
}

// Restart resets the cache for lineCount lines and starts a pass over all
// of them. The returned regions are already in flight.
func (c *Cache) Restart(lineCount int) ([]Region, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.restart(lineCount)
}

// ResetDirty is Restart, but only while the generation is still gen. It
// reports false, and changes nothing, once an edit has moved the
// generation on.
func (c *Cache) ResetDirty(gen uint64, lineCount int) ([]Region, uint64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil, c.gen, false
	}
	regions, next := c.restart(lineCount)
	return regions, next, true
}

func (c *Cache) restart(lineCount int) ([]Region, uint64) {
	c.reset(lineCount)
	if c.lineCount == 0 {
		return nil, c.gen
	}
	c.inflight = []Region{{Start: 0, End: c.lineCount - 1}}
	return append([]Region(nil), c.inflight...), c.gen
}

func (c *Cache) reset(lineCount int) {
	c.entries = make(map[int]*Entry)
	c.lineCount = max(lineCount, 0)
	c.pending = nil
	c.inflight = nil
	c.gen++
	c.invalidateSnapshot()
}

// LineCount returns the number of lines the cache believes the document has.
func (c *Cache) LineCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lineCount
}

// Generation changes on every edit and reset. Results computed against an
// older generation must not be stored.
func (c *Cache) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Entry returns the entry for line if it is present and valid.
func (c *Cache) Entry(line int) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[line]
	if !ok || !e.Valid {
		return Entry{}, false
	}
	return *e, true
}

// Peek returns the entry for line even if it has been invalidated.
func (c *Cache) Peek(line int) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[line]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// SetEntry stores e for line unconditionally.
func (c *Cache) SetEntry(line int, e Entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setEntry(line, e)
}

// Store stores e for line only if gen is still the current generation and
// line is inside the document.
func (c *Cache) Store(gen uint64, line int, e Entry) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen || line < 0 || line >= c.lineCount {
		return false
	}
	c.setEntry(line, e)
	return true
}

func (c *Cache) setEntry(line int, e Entry) {
	c.entries[line] = &e
	c.invalidateSnapshot()
}

// MarkDirty queues [start, end] for lexing and invalidates the entries in
// that range. The range is clamped to the document.
func (c *Cache) MarkDirty(start, end int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bump()
	c.markDirty(start, end)
}

// bump starts a new generation. Regions of a pass still in flight return
// to the pending set, since that pass can no longer store its results.
func (c *Cache) bump() {
	c.gen++
	c.pending = Merge(append(c.pending, c.inflight...))
	c.inflight = nil
}

func (c *Cache) markDirty(start, end int) {
	r, ok := Region{Start: start, End: end}.clamp(c.lineCount)
	if !ok {
		return
	}
	c.pending = Merge(append(c.pending, r))
	for line, e := range c.entries {
		if r.Contains(line) {
			e.Valid = false
		}
	}
}

// Dirty returns a copy of the pending regions.
func (c *Cache) Dirty() []Region {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Region(nil), c.pending...)
}

// PopDirty drains the pending regions and marks them in flight. The
// returned generation must accompany every Store made for them.
func (c *Cache) PopDirty() ([]Region, uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	regions := c.pending
	c.pending = nil
	c.inflight = Merge(append(c.inflight, regions...))
	return regions, c.gen
}

// Finish ends a pass started by PopDirty.
func (c *Cache) Finish(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen == c.gen {
		c.inflight = nil
	}
}

// Requeue returns unfinished regions of a cancelled pass to the pending
// set. It is a no-op when an edit has already moved them back.
func (c *Cache) Requeue(gen uint64, regions []Region) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return false
	}
	for _, r := range regions {
		c.markDirty(r.Start, r.End)
	}
	c.inflight = nil
	return true
}

// SetContent records the current text of line without validating its
// tokens, so that later line edits are measured against it.
func (c *Cache) SetContent(line int, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line < 0 || line >= c.lineCount {
		return
	}
	if e, ok := c.entries[line]; ok {
		e.Content = content
		return
	}
	c.entries[line] = &Entry{Content: content}
}

// HandleLineModified marks line dirty if content differs from what was
// cached for it. It reports whether the line was marked.
func (c *Cache) HandleLineModified(line int, content string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if line < 0 || line >= c.lineCount {
		return false
	}
	if e, ok := c.entries[line]; ok && e.Valid && e.Content == content {
		return false
	}
	c.bump()
	c.markDirty(line, line)
	return true
}

// HandleDocumentChange reconciles the cache with an edit that starts on
// line changeStart, removes linesRemoved line breaks, inserts linesAdded
// line breaks and changes the document length by charDelta bytes. Lines
// after the edit keep their entries under their new line numbers; lines
// [changeStart, changeStart+linesAdded] are marked dirty.
func (c *Cache) HandleDocumentChange(changeStart, linesRemoved, linesAdded, charDelta int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handleDocumentChange(changeStart, linesRemoved, linesAdded, charDelta)
}

// HandleLineEdited records that line now holds content without any change
// to the line count. Later offsets shift by the length difference against
// the last known content. A line with no entry marks the rest of the
// document dirty, since its old length is unknown. It reports whether
// anything changed.
func (c *Cache) HandleLineEdited(line int, content string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[line]
	if !ok {
		if line < 0 || line >= c.lineCount {
			return false, fmt.Errorf("%w: line %d of %d", ErrEditOutOfRange, line, c.lineCount)
		}
		c.bump()
		c.markDirty(line, c.lineCount-1)
		return true, nil
	}
	if e.Content == content {
		return false, nil
	}
	delta := len(content) - len(e.Content)
	e.Content = content
	return true, c.handleDocumentChange(line, 0, 0, delta)
}

func (c *Cache) handleDocumentChange(changeStart, linesRemoved, linesAdded, charDelta int) error {
	c.gen++
	c.invalidateSnapshot()

	if changeStart < 0 || linesRemoved < 0 || linesAdded < 0 ||
		changeStart+linesRemoved >= c.lineCount {
		return fmt.Errorf("%w: change at line %d removing %d of %d lines",
			ErrEditOutOfRange, changeStart, linesRemoved, c.lineCount)
	}

	delta := linesAdded - linesRemoved
	if delta == 0 {
		for line, e := range c.entries {
			if line > changeStart+linesAdded {
				e.Tokens = shiftTokens(e.Tokens, 0, charDelta)
			}
		}
	} else {
		entries := make(map[int]*Entry, len(c.entries))
		for line, e := range c.entries {
			switch {
			case line < changeStart:
				entries[line] = e
			case line >= changeStart+linesRemoved:
				e.Tokens = shiftTokens(e.Tokens, delta, charDelta)
				entries[line+delta] = e
			}
		}
		c.entries = entries
	}

	oldCount := c.lineCount
	c.lineCount += delta
	c.pending = c.translate(c.pending, changeStart, linesRemoved, linesAdded)
	c.pending = append(c.pending, c.translate(c.inflight, changeStart, linesRemoved, linesAdded)...)
	c.inflight = nil
	c.markDirty(changeStart, changeStart+linesAdded)

	log.Debugf("edit at %d: -%d +%d lines (%d -> %d), %d bytes",
		changeStart, linesRemoved, linesAdded, oldCount, c.lineCount, charDelta)
	return nil
}

func (c *Cache) translate(regions []Region, cs, removed, added int) []Region {
	var out []Region
	for _, r := range regions {
		if t, ok := r.translate(cs, removed, added, c.lineCount); ok {
			out = append(out, t)
		}
	}
	return out
}

func shiftTokens(tokens []token.Token, lineDelta, offsetDelta int) []token.Token {
	if len(tokens) == 0 || (lineDelta == 0 && offsetDelta == 0) {
		return tokens
	}
	out := make([]token.Token, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Shifted(lineDelta, offsetDelta)
	}
	return out
}

// Tokens returns the tokens of every entry, valid or not, in line order.
// The slice is shared and must not be modified.
func (c *Cache) Tokens() []token.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.fresh {
		lines := make([]int, 0, len(c.entries))
		for line := range c.entries {
			lines = append(lines, line)
		}
		sort.Ints(lines)
		var tokens []token.Token
		for _, line := range lines {
			tokens = append(tokens, c.entries[line].Tokens...)
		}
		c.snapshot = tokens
		c.fresh = true
	}
	return c.snapshot
}

func (c *Cache) invalidateSnapshot() {
	c.fresh = false
}
