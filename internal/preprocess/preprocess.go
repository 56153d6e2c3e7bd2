// Package preprocess implements Cxy's textual preprocessing stage
// (spec.md §4.9): a `@define NAME value` symbol table kept separate
// from the module environment the binder later builds, and
// line-oriented `#if defined(NAME)` / `#ifndef` / `#else` / `#endif`
// conditional compilation applied to source text before the lexer
// ever sees the guarded lines. This is distinct from the richer
// `#if`/`#for`/`#while`/`#const` AST nodes internal/comptime folds
// after parsing, which can depend on full comptime-evaluated
// expressions rather than just symbol-table membership.
package preprocess

import (
	"strconv"
	"strings"

	"github.com/dccarter/cxy/internal/diagnostics"
)

// Symbols is the preprocessor's own symbol table, deliberately
// disjoint from the module environment the binder builds later
// (spec.md §4.9 "separate symbol table from the module environment").
// It also accumulates the native-build bookkeeping `@cDefine`/
// `@cInclude`/`@cSources` directives contribute, for the driver to feed
// to the C backend alongside the `@cBuild` declaration attributes
// collected at the AST level (spec.md §4.8).
type Symbols struct {
	defines map[string]string

	CDefines map[string]string // native preprocessor defines for generated C
	CIncludes []string         // header paths `@cInclude "path"` names
	CSources  []string         // source paths `@cSources "path"` names
}

// NewSymbols creates an empty preprocessor symbol table.
func NewSymbols() *Symbols {
	return &Symbols{
		defines:  make(map[string]string),
		CDefines: make(map[string]string),
	}
}

// Define records `@define NAME value`. An empty value marks NAME as
// defined-but-valueless, which is sufficient for `defined(NAME)`.
func (s *Symbols) Define(name, value string) { s.defines[name] = value }

// Undefine removes a prior Define, for `@undef NAME`.
func (s *Symbols) Undefine(name string) { delete(s.defines, name) }

// Defined reports whether NAME has an active @define.
func (s *Symbols) Defined(name string) bool {
	_, ok := s.defines[name]
	return ok
}

// Value returns the raw textual value NAME was defined with.
func (s *Symbols) Value(name string) (string, bool) {
	v, ok := s.defines[name]
	return v, ok
}

// Names returns every currently-defined symbol, for `T.members`-style
// comptime introspection over build configuration (spec.md §4.5).
func (s *Symbols) Names() []string {
	out := make([]string, 0, len(s.defines))
	for k := range s.defines {
		out = append(out, k)
	}
	return out
}

// frame tracks one nested #if/#else/#endif's state.
type frame struct {
	// branchTaken is true once any branch of this chain has matched,
	// so a later #else in the same chain knows to stay inactive.
	branchTaken bool
	// active is true if the current branch's lines should pass
	// through, ANDed against every enclosing frame's active state.
	active bool
}

// Expander evaluates `@define`/`#if`/`#ifndef`/`#else`/`#endif`
// directive lines against a Symbols table, producing the filtered
// source text the lexer should actually tokenize.
type Expander struct {
	syms *Symbols
	log  *diagnostics.Log
}

// NewExpander creates an Expander bound to a symbol table and
// diagnostic log.
func NewExpander(syms *Symbols, log *diagnostics.Log) *Expander {
	return &Expander{syms: syms, log: log}
}

// Expand filters src line by line, stripping directive lines and the
// bodies of untaken conditional branches, substituting `@define`d
// object-like macros into surviving lines, and preserving every
// source line's position (replaced by a blank line) so the lexer's
// line/column tracking stays aligned with the original file for
// diagnostics.
func (e *Expander) Expand(src, file string) string {
	lines := strings.Split(src, "\n")
	out := make([]string, len(lines))
	var stack []frame

	allActive := func() bool {
		for _, f := range stack {
			if !f.active {
				return false
			}
		}
		return true
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "@define "):
			if allActive() {
				e.handleDefine(trimmed)
			}
			out[i] = ""
		case strings.HasPrefix(trimmed, "@undef "):
			if allActive() {
				name := strings.TrimSpace(strings.TrimPrefix(trimmed, "@undef "))
				e.syms.Undefine(name)
			}
			out[i] = ""
		case strings.HasPrefix(trimmed, "@cDefine "):
			if allActive() {
				e.handleCDefine(trimmed)
			}
			out[i] = ""
		case strings.HasPrefix(trimmed, "@cInclude "):
			if allActive() {
				e.syms.CIncludes = append(e.syms.CIncludes, unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "@cInclude "))))
			}
			out[i] = ""
		case strings.HasPrefix(trimmed, "@cSources "):
			if allActive() {
				e.syms.CSources = append(e.syms.CSources, unquote(strings.TrimSpace(strings.TrimPrefix(trimmed, "@cSources "))))
			}
			out[i] = ""
		case strings.HasPrefix(trimmed, "#if "):
			cond := e.evalCondition(strings.TrimSpace(strings.TrimPrefix(trimmed, "#if ")))
			parentActive := allActive()
			stack = append(stack, frame{branchTaken: cond && parentActive, active: cond && parentActive})
			out[i] = ""
		case strings.HasPrefix(trimmed, "#ifndef "):
			name := strings.TrimSpace(strings.TrimPrefix(trimmed, "#ifndef "))
			cond := !e.syms.Defined(name)
			parentActive := allActive()
			stack = append(stack, frame{branchTaken: cond && parentActive, active: cond && parentActive})
			out[i] = ""
		case trimmed == "#else":
			if len(stack) == 0 {
				e.log.Error(diagnostics.PhasePreproc, diagnostics.PAR001, nil,
					"%s:%d: #else without matching #if", file, i+1)
				break
			}
			top := &stack[len(stack)-1]
			parentActive := true
			if len(stack) > 1 {
				for _, f := range stack[:len(stack)-1] {
					parentActive = parentActive && f.active
				}
			}
			if top.branchTaken {
				top.active = false
			} else {
				top.active = parentActive
				top.branchTaken = true
			}
			out[i] = ""
		case trimmed == "#endif":
			if len(stack) == 0 {
				e.log.Error(diagnostics.PhasePreproc, diagnostics.PAR001, nil,
					"%s:%d: #endif without matching #if", file, i+1)
				break
			}
			stack = stack[:len(stack)-1]
			out[i] = ""
		default:
			if allActive() {
				out[i] = e.substituteDefines(line)
			} else {
				out[i] = ""
			}
		}
	}
	if len(stack) != 0 {
		e.log.Error(diagnostics.PhasePreproc, diagnostics.PAR002, nil,
			"%s: unterminated #if (missing #endif)", file)
	}
	return strings.Join(out, "\n")
}

func (e *Expander) handleDefine(directive string) {
	rest := strings.TrimSpace(strings.TrimPrefix(directive, "@define "))
	parts := strings.SplitN(rest, " ", 2)
	name := parts[0]
	value := ""
	if len(parts) == 2 {
		value = strings.TrimSpace(parts[1])
	}
	e.syms.Define(name, value)
}

// handleCDefine records `@cDefine NAME [value]`, a preprocessor define
// destined for the generated C translation unit rather than for Cxy
// source substitution (spec.md §4.9).
func (e *Expander) handleCDefine(directive string) {
	rest := strings.TrimSpace(strings.TrimPrefix(directive, "@cDefine "))
	parts := strings.SplitN(rest, " ", 2)
	name := parts[0]
	value := ""
	if len(parts) == 2 {
		value = strings.TrimSpace(parts[1])
	}
	e.syms.CDefines[name] = value
}

// unquote strips a single layer of surrounding double quotes, if
// present, from a directive's path argument.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// evalCondition evaluates a `defined(NAME)`, `!defined(NAME)`, or bare
// `NAME` condition (spec.md §4.9's `#if defined(X)` plus a
// truthy-value fallback for simple feature flags).
func (e *Expander) evalCondition(cond string) bool {
	negate := false
	if strings.HasPrefix(cond, "!") {
		negate = true
		cond = strings.TrimSpace(cond[1:])
	}
	result := false
	if strings.HasPrefix(cond, "defined(") && strings.HasSuffix(cond, ")") {
		name := strings.TrimSpace(cond[len("defined(") : len(cond)-1])
		result = e.syms.Defined(name)
	} else {
		val, ok := e.syms.Value(cond)
		result = ok && val != "" && val != "0"
	}
	if negate {
		return !result
	}
	return result
}

// substituteDefines replaces whole-word occurrences of a @define'd
// name with its value, implementing object-like macro substitution
// (spec.md §4.9). Function-like macros are out of scope here; Cxy's
// `macro` declarations (internal/ast.MacroDecl, expanded by
// internal/comptime) subsume that need at the AST level.
func (e *Expander) substituteDefines(line string) string {
	if len(e.syms.defines) == 0 {
		return line
	}
	var sb strings.Builder
	i := 0
	for i < len(line) {
		if isIdentStart(rune(line[i])) {
			j := i + 1
			for j < len(line) && isIdentPart(rune(line[j])) {
				j++
			}
			word := line[i:j]
			if val, ok := e.syms.Value(word); ok && val != "" {
				sb.WriteString(val)
			} else {
				sb.WriteString(word)
			}
			i = j
			continue
		}
		sb.WriteByte(line[i])
		i++
	}
	return sb.String()
}

func isIdentStart(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch rune) bool {
	return isIdentStart(ch) || (ch >= '0' && ch <= '9')
}

// looksNumeric is a small helper kept for callers that need to decide
// whether a substituted value should be treated as a numeric literal
// versus a string, mirroring the lexer's own number-vs-string split.
func looksNumeric(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}
</content>
