package lsp

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"linelex/grammar"
	"linelex/internal/engine"
	"linelex/internal/language"
	"linelex/token"
)

var log = commonlog.GetLogger("linelex.lsp")

// document is one open text document and the engine that tokenizes it.
// mu serializes edits and token requests for the document.
type document struct {
	mu      sync.Mutex
	uri     protocol.DocumentUri
	text    string
	version protocol.Integer
	engine  *engine.Engine
	worker  *engine.Worker
}

// Handler implements the LSP server handlers: it keeps an engine per open
// document, feeds it incremental edits and answers semantic token requests.
type Handler struct {
	name      string
	version   string
	registry  *language.Registry
	queueSize int

	mu        sync.RWMutex
	documents map[protocol.DocumentUri]*document
}

// NewHandler creates a handler resolving languages through registry. With
// a queueSize above zero each document gets a background worker that
// re-tokenizes after every change.
func NewHandler(name, version string, registry *language.Registry, queueSize int) *Handler {
	return &Handler{
		name:      name,
		version:   version,
		registry:  registry,
		queueSize: queueSize,
		documents: make(map[protocol.DocumentUri]*document),
	}
}

// Initialize responds to the LSP client's initialize request and advertises the server's capabilities
func (h *Handler) Initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	log.Info("initialize")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: ptrBool(true),
				Change:    ptrSyncKind(protocol.TextDocumentSyncKindIncremental),
			},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     SemanticTokenTypes,
					TokenModifiers: SemanticTokenModifiers,
				},
				Full:  ptrBool(true),
				Range: ptrBool(true),
			},
		},
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    h.name,
			Version: &h.version,
		},
	}, nil
}

func (h *Handler) Initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	return nil
}

// Shutdown closes every open document.
func (h *Handler) Shutdown(ctx *glsp.Context) error {
	log.Info("shutdown")
	h.mu.Lock()
	docs := h.documents
	h.documents = make(map[protocol.DocumentUri]*document)
	h.mu.Unlock()

	for _, doc := range docs {
		doc.close()
	}
	return nil
}

func (h *Handler) SetTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

// TextDocumentDidOpen starts tracking a document. The language comes from
// the client's language id, else from the file extension.
func (h *Handler) TextDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	item := params.TextDocument
	lang := h.languageFor(item.LanguageID, item.URI)
	log.Infof("opened %s as %s", item.URI, lang.Name)

	doc := &document{
		uri:     item.URI,
		text:    item.Text,
		version: item.Version,
		engine:  engine.New(lang),
	}
	doc.engine.Initialize(item.Text)
	if h.queueSize > 0 {
		doc.worker = engine.NewWorker(doc.engine, h.queueSize, func(r engine.Result) {
			if r.Err != nil {
				log.Warningf("%s: background pass for version %d: %s", item.URI, r.Version, r.Err)
				return
			}
			log.Debugf("%s: version %d tokenized, %d tokens", item.URI, r.Version, len(r.Tokens))
		})
		doc.worker.Run()
		doc.worker.Schedule(int(item.Version), item.Text)
	}

	h.mu.Lock()
	if old, ok := h.documents[item.URI]; ok {
		old.close()
	}
	h.documents[item.URI] = doc
	h.mu.Unlock()

	h.publishDefinitionDiagnostics(ctx, item.URI, item.Text)
	return nil
}

// TextDocumentDidChange applies the client's edits in order. Ranged changes
// are reported to the engine as text changes; a change without a range
// replaces the document.
func (h *Handler) TextDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	doc, err := h.document(params.TextDocument.URI)
	if err != nil {
		return err
	}

	doc.mu.Lock()
	for _, raw := range params.ContentChanges {
		switch change := raw.(type) {
		case protocol.TextDocumentContentChangeEvent:
			doc.apply(change)
		case protocol.TextDocumentContentChangeEventWhole:
			doc.text = change.Text
			doc.engine.Initialize(change.Text)
		default:
			doc.mu.Unlock()
			return fmt.Errorf("unexpected change event type %T", raw)
		}
	}
	doc.version = params.TextDocument.Version
	text := doc.text
	if doc.worker != nil {
		doc.worker.Schedule(int(doc.version), text)
	}
	doc.mu.Unlock()

	h.publishDefinitionDiagnostics(ctx, params.TextDocument.URI, text)
	return nil
}

// apply splices one ranged change into the text and reports it. Edits the
// engine rejects are logged; its next pass starts from scratch.
func (d *document) apply(change protocol.TextDocumentContentChangeEvent) {
	if change.Range == nil {
		d.text = change.Text
		d.engine.Initialize(change.Text)
		return
	}
	start := positionToOffset(d.text, change.Range.Start)
	end := positionToOffset(d.text, change.Range.End)
	if end.Offset < start.Offset {
		start, end = end, start
	}

	d.text = d.text[:start.Offset] + change.Text + d.text[end.Offset:]
	lengthDelta := len(change.Text) - (end.Offset - start.Offset)
	if err := d.engine.HandleTextChange(token.TextRange{Start: start, End: end}, lengthDelta, d.text); err != nil {
		log.Warningf("%s: %s", d.uri, err)
	}
}

// TextDocumentDidClose stops tracking a document
func (h *Handler) TextDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	log.Infof("closed %s", params.TextDocument.URI)

	h.mu.Lock()
	doc, ok := h.documents[params.TextDocument.URI]
	delete(h.documents, params.TextDocument.URI)
	h.mu.Unlock()

	if ok {
		doc.close()
	}
	return nil
}

// TextDocumentSemanticTokensFull handles semantic token requests for the entire document
func (h *Handler) TextDocumentSemanticTokensFull(ctx *glsp.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	doc, err := h.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	tokens, err := doc.engine.RetokenizeDirtyRegions(context.Background(), doc.text)
	if err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", doc.uri, err)
	}
	return &protocol.SemanticTokens{Data: encode(tokens, lines(doc.text))}, nil
}

// TextDocumentSemanticTokensRange handles semantic token requests for part of a document
func (h *Handler) TextDocumentSemanticTokensRange(ctx *glsp.Context, params *protocol.SemanticTokensRangeParams) (any, error) {
	doc, err := h.document(params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	doc.mu.Lock()
	defer doc.mu.Unlock()

	if _, err := doc.engine.RetokenizeDirtyRegions(context.Background(), doc.text); err != nil {
		return nil, fmt.Errorf("tokenize %s: %w", doc.uri, err)
	}
	r := token.TextRange{
		Start: positionToOffset(doc.text, params.Range.Start),
		End:   positionToOffset(doc.text, params.Range.End),
	}
	tokens := doc.engine.Stream().Within(r)
	return &protocol.SemanticTokens{Data: encode(tokens, lines(doc.text))}, nil
}

func (h *Handler) document(uri protocol.DocumentUri) (*document, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	doc, ok := h.documents[uri]
	if !ok {
		return nil, fmt.Errorf("document %s is not open", uri)
	}
	return doc, nil
}

func (h *Handler) languageFor(languageID string, uri protocol.DocumentUri) *language.Language {
	if l, ok := h.registry.Lookup(languageID); ok {
		return l
	}
	path, err := uriToPath(uri)
	if err != nil {
		log.Debugf("%s", err)
		return h.registry.Default()
	}
	return h.registry.ForPath(path)
}

func (d *document) close() {
	if d.worker != nil {
		d.worker.Stop()
	}
	d.engine.Close()
}

func isDefinitionFile(uri protocol.DocumentUri) bool {
	return strings.HasSuffix(uri, grammar.Extension)
}

// Convert URI to platform-local file path
func uriToPath(rawURI string) (string, error) {
	u, err := url.Parse(rawURI)
	if err != nil {
		return "", fmt.Errorf("invalid URI %s: %w", rawURI, err)
	}

	path := u.Path

	// On Windows, remove leading slash (e.g., /C:/...) -> C:/...
	if runtime.GOOS == "windows" && strings.HasPrefix(path, "/") && len(path) > 3 && path[2] == ':' {
		path = path[1:]
	}

	return filepath.FromSlash(path), nil
}

func ptrBool(b bool) *bool {
	return &b
}

func ptrSyncKind(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}
