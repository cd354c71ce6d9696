package engine

import (
	"fmt"
	"strings"

	"linelex/internal/cache"
	"linelex/token"
)

// LineChange describes an edit in line terms. Start is the first line the
// edit touches; LinesRemoved and LinesAdded count the line breaks the edit
// deleted and inserted; CharDelta is the change in document length in
// bytes.
type LineChange struct {
	Start        int `json:"start" yaml:"start"`
	LinesRemoved int `json:"lines_removed" yaml:"lines_removed"`
	LinesAdded   int `json:"lines_added" yaml:"lines_added"`
	CharDelta    int `json:"char_delta" yaml:"char_delta"`
}

// HandleEdit records that line now reads newContent. Nothing is lexed until
// the next pass. Editing a line to its current content is a no-op.
func (e *Engine) HandleEdit(line int, newContent string) error {
	changed, err := e.cache.HandleLineEdited(line, newContent)
	if err != nil {
		e.flagReset(err)
		return fmt.Errorf("edit line %d: %w", line, err)
	}
	if changed {
		log.Debugf("engine %s: line %d edited", e.id, line)
	}
	return nil
}

// HandleLinesChanged marks [start, end] dirty. Offsets of later lines are
// left alone, so it suits edits that keep line lengths.
func (e *Engine) HandleLinesChanged(start, end int) {
	e.cache.MarkDirty(start, end)
}

// HandleDocumentChange applies a line-level edit to the cache. An edit that
// does not fit the cached document is reported and makes the next pass
// start from scratch.
func (e *Engine) HandleDocumentChange(change LineChange) error {
	err := e.cache.HandleDocumentChange(change.Start, change.LinesRemoved, change.LinesAdded, change.CharDelta)
	if err != nil {
		e.flagReset(err)
		return fmt.Errorf("document change: %w", err)
	}
	return nil
}

// HandleTextChange applies an edit that replaced old, a range of the
// previous document, with text that changed the document length by
// lengthDelta bytes. newDocument is the document after the edit.
func (e *Engine) HandleTextChange(old token.TextRange, lengthDelta int, newDocument string) error {
	change, err := lineChange(old, lengthDelta, newDocument)
	if err != nil {
		e.flagReset(err)
		return err
	}
	if err := e.HandleDocumentChange(change); err != nil {
		return err
	}
	start := old.Start.Offset
	for i, text := range touchedLines(newDocument, start, old.End.Offset+lengthDelta) {
		e.cache.SetContent(change.Start+i, text)
	}
	return nil
}

// touchedLines returns the full lines of doc that overlap [start, end).
func touchedLines(doc string, start, end int) []string {
	lineStart := strings.LastIndexByte(doc[:start], '\n') + 1
	lineEnd := len(doc)
	if i := strings.IndexByte(doc[end:], '\n'); i >= 0 {
		lineEnd = end + i
	}
	return strings.Split(doc[lineStart:lineEnd], "\n")
}

// lineChange converts a character-level edit into line terms.
func lineChange(old token.TextRange, lengthDelta int, newDocument string) (LineChange, error) {
	start := old.Start.Offset
	end := old.End.Offset + lengthDelta
	if !old.Valid() || start < 0 || end < start || end > len(newDocument) {
		return LineChange{}, fmt.Errorf("text change %v (%+d bytes) in %d bytes: %w",
			old, lengthDelta, len(newDocument), cache.ErrEditOutOfRange)
	}
	return LineChange{
		Start:        old.Start.Line,
		LinesRemoved: old.End.Line - old.Start.Line,
		LinesAdded:   strings.Count(newDocument[start:end], "\n"),
		CharDelta:    lengthDelta,
	}, nil
}

func (e *Engine) flagReset(err error) {
	log.Warningf("engine %s: %s", e.id, err)
	e.mu.Lock()
	e.needsReset = true
	e.mu.Unlock()
}
