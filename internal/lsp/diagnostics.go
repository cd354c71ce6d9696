package lsp

import (
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"

	"linelex/grammar"
	"linelex/internal/errors"
)

const diagnosticSource = "linelex"

// ConvertDiagnostics transforms language definition diagnostics into LSP
// diagnostics. Definition positions are 1-based and count characters.
func ConvertDiagnostics(ds errors.Diagnostics) []protocol.Diagnostic {
	diagnostics := []protocol.Diagnostic{}

	for _, d := range ds {
		line := uint32(max(d.Position.Line-1, 0))
		start := uint32(max(d.Position.Column-1, 0))
		length := uint32(max(d.Length, 1))

		message := d.Message
		for _, s := range d.Suggestions {
			message += "\nhelp: " + s
		}
		for _, n := range d.Notes {
			message += "\nnote: " + n
		}
		if d.HelpText != "" {
			message += "\nhelp: " + d.HelpText
		}

		diagnostics = append(diagnostics, protocol.Diagnostic{
			Range: protocol.Range{
				Start: protocol.Position{Line: line, Character: start},
				End:   protocol.Position{Line: line, Character: start + length},
			},
			Severity: ptrSeverity(severity(d.Level)),
			Code:     &protocol.IntegerOrString{Value: d.Code},
			Source:   ptrString(diagnosticSource),
			Message:  message,
		})
	}

	return diagnostics
}

// publishDefinitionDiagnostics checks documents that are language definition
// files and publishes the result. Other documents are left alone.
func (h *Handler) publishDefinitionDiagnostics(ctx *glsp.Context, uri protocol.DocumentUri, text string) {
	if !isDefinitionFile(uri) {
		return
	}
	path, err := uriToPath(uri)
	if err != nil {
		path = uri
	}
	_, ds := grammar.Check(path, text)
	log.Debugf("%s: %d definition diagnostics", uri, len(ds))

	if ctx == nil || ctx.Notify == nil {
		return
	}
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, &protocol.PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: ConvertDiagnostics(ds),
	})
}

func severity(level errors.Level) protocol.DiagnosticSeverity {
	switch level {
	case errors.Warning:
		return protocol.DiagnosticSeverityWarning
	case errors.Note:
		return protocol.DiagnosticSeverityInformation
	case errors.Help:
		return protocol.DiagnosticSeverityHint
	default:
		return protocol.DiagnosticSeverityError
	}
}

func ptrSeverity(s protocol.DiagnosticSeverity) *protocol.DiagnosticSeverity {
	return &s
}

func ptrString(s string) *string {
	return &s
}
