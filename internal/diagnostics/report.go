package diagnostics

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dccarter/cxy/internal/token"
)

// Kind distinguishes the three diagnostic severities of spec.md §3.5.
type Kind int

const (
	KindError Kind = iota
	KindWarning
	KindNote
)

func (k Kind) String() string {
	switch k {
	case KindError:
		return "error"
	case KindWarning:
		return "warning"
	case KindNote:
		return "note"
	default:
		return "unknown"
	}
}

// WarningID names a specific warning category (spec.md §6
// "Warning-flag syntax").
type WarningID string

const (
	WarnMissingStage       WarningID = "MissingStage"
	WarnUnusedVariable     WarningID = "UnusedVariable"
	WarnRedundantStmt      WarningID = "RedundantStmt"
	WarnCMacroRedefine     WarningID = "CMacroRedefine"
	WarnCUnsupportedField  WarningID = "CUnsupportedField"
	WarnMaybeUninitialized WarningID = "MaybeUninitialized"
)

// DefaultWarningMask enables every warning except the three spec.md §6
// says are off by default.
func DefaultWarningMask() map[WarningID]bool {
	return map[WarningID]bool{
		WarnMissingStage:       false,
		WarnUnusedVariable:     true,
		WarnRedundantStmt:      true,
		WarnCMacroRedefine:     false,
		WarnCUnsupportedField:  true,
		WarnMaybeUninitialized: false,
	}
}

// Fix is an optional suggested fix ("did you mean …?") attached to a Report.
type Fix struct {
	Suggestion string  `json:"suggestion"`
	Confidence float64 `json:"confidence"`
}

// Report is the canonical structured diagnostic: `{ kind, span,
// format-string, args }` from spec.md §3.5, extended with a stable
// code/phase/fix so downstream tooling (the JSON encoder, an LSP
// client) can consume it mechanically.
type Report struct {
	Schema  string         `json:"schema"`
	Kind    Kind           `json:"kind"`
	Code    string         `json:"code"`
	Phase   string         `json:"phase"`
	Message string         `json:"message"`
	Span    *token.Span    `json:"span,omitempty"`
	Warning WarningID      `json:"warning,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Fix     *Fix           `json:"fix,omitempty"`
}

// ReportError wraps a Report as an `error` so it survives errors.As
// unwrapping through ordinary Go error-handling call chains.
type ReportError struct{ Rep *Report }

func (e *ReportError) Error() string {
	if e.Rep == nil {
		return "unknown diagnostic"
	}
	return e.Rep.Code + ": " + e.Rep.Message
}

// AsReport extracts a *Report from an error chain, if any.
func AsReport(err error) (*Report, bool) {
	var re *ReportError
	if errors.As(err, &re) {
		return re.Rep, true
	}
	return nil, false
}

// WrapReport turns a Report into an error.
func WrapReport(r *Report) error {
	if r == nil {
		return nil
	}
	return &ReportError{Rep: r}
}

// Log is the append-only diagnostic accumulator of spec.md §3.5: it
// stops emission beyond a configurable error limit and filters
// warnings against a per-compilation mask, but per spec.md §7
// "Diagnostics never decrease": Reset is never called mid-compilation,
// only between independent driver.Compile invocations.
type Log struct {
	reports    []*Report
	errorCount int
	warnCount  int

	limit        int // 0 means unlimited
	warningMask  map[WarningID]bool
	limitReached bool
}

// NewLog creates a Log with the given error limit (spec.md §3.5
// "global error limit") and warning mask (spec.md §6). A limit <= 0
// means unlimited.
func NewLog(limit int, mask map[WarningID]bool) *Log {
	if mask == nil {
		mask = DefaultWarningMask()
	}
	return &Log{limit: limit, warningMask: mask}
}

// Emit appends a diagnostic, unless it is a filtered warning or the
// error limit has already silenced further errors.
func (l *Log) Emit(r *Report) {
	if r.Kind == KindWarning {
		if enabled, ok := l.warningMask[r.Warning]; ok && !enabled {
			return
		}
		l.warnCount++
		l.reports = append(l.reports, r)
		return
	}
	if r.Kind == KindError {
		if l.limit > 0 && l.errorCount >= l.limit {
			l.limitReached = true
			return
		}
		l.errorCount++
	}
	l.reports = append(l.reports, r)
}

// Error builds and emits a KindError Report.
func (l *Log) Error(phase, code string, span *token.Span, format string, args ...any) {
	l.Emit(&Report{
		Schema:  "cxy.diagnostic/v1",
		Kind:    KindError,
		Code:    code,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// Warning builds and emits a KindWarning Report, subject to the mask.
func (l *Log) Warning(phase string, id WarningID, span *token.Span, format string, args ...any) {
	l.Emit(&Report{
		Schema:  "cxy.diagnostic/v1",
		Kind:    KindWarning,
		Code:    string(id),
		Phase:   phase,
		Warning: id,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// Note builds and emits a KindNote Report, typically referencing a
// related declaration alongside a preceding Error.
func (l *Log) Note(phase string, span *token.Span, format string, args ...any) {
	l.Emit(&Report{
		Schema:  "cxy.diagnostic/v1",
		Kind:    KindNote,
		Phase:   phase,
		Message: fmt.Sprintf(format, args...),
		Span:    span,
	})
}

// ErrorCount/WarningCount back the driver's exit-status rule (spec.md
// §7: "nonzero iff errorCount > 0").
func (l *Log) ErrorCount() int   { return l.errorCount }
func (l *Log) WarningCount() int { return l.warnCount }
func (l *Log) LimitReached() bool { return l.limitReached }

// Reports returns all accumulated diagnostics in emission order.
func (l *Log) Reports() []*Report { return l.reports }

// SortedByLocation returns a copy of Reports ordered by file, line,
// column — useful for deterministic CLI/test output.
func (l *Log) SortedByLocation() []*Report {
	out := make([]*Report, len(l.reports))
	copy(out, l.reports)
	sort.SliceStable(out, func(i, j int) bool {
		si, sj := out[i].Span, out[j].Span
		if si == nil || sj == nil {
			return sj != nil
		}
		if si.Begin.File != sj.Begin.File {
			return si.Begin.File < sj.Begin.File
		}
		if si.Begin.Line != sj.Begin.Line {
			return si.Begin.Line < sj.Begin.Line
		}
		return si.Begin.Column < sj.Begin.Column
	})
	return out
}
</content>
