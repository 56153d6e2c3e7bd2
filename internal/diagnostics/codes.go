// Package diagnostics provides the Cxy compiler's structured error
// reporting: a stable error-code taxonomy, an append-only diagnostic
// log with a configurable error limit, and a deterministic JSON
// encoder, following the teacher's internal/errors package.
package diagnostics

// Error codes organized by the taxonomy in spec.md §7. Each constant
// names a specific diagnosable condition.
const (
	// Lexer errors (LEX###)
	LEX001 = "LEX001" // invalid character
	LEX002 = "LEX002" // unterminated string/char literal
	LEX003 = "LEX003" // malformed numeric literal
	LEX004 = "LEX004" // invalid escape sequence
	LEX005 = "LEX005" // unterminated block comment

	// Parser errors (PAR###) — recoverable via synchronize()
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // missing closing delimiter
	PAR003 = "PAR003" // invalid function declaration
	PAR004 = "PAR004" // invalid module declaration
	PAR005 = "PAR005" // invalid import statement
	PAR006 = "PAR006" // invalid test block
	PAR007 = "PAR007" // invalid pattern
	PAR008 = "PAR008" // invalid type annotation
	PAR009 = "PAR009" // invalid effect/attribute annotation
	PAR010 = "PAR010" // empty match block

	// Parser abort (PAB###) — unrecoverable, terminates the unit
	PAB001 = "PAB001" // included file missing
	PAB002 = "PAB002" // lexer desynchronized beyond repair

	// Name/binder errors (NAM###)
	NAM001 = "NAM001" // undefined symbol
	NAM002 = "NAM002" // ambiguous symbol
	NAM003 = "NAM003" // invalid use of super outside inheritance chain
	NAM004 = "NAM004" // comptime symbol read outside comptime context
	NAM005 = "NAM005" // test-context symbol read outside test function
	NAM006 = "NAM006" // shadowing a non-overloadable symbol

	// Type errors (TYP###)
	TYP001 = "TYP001" // type incompatibility
	TYP002 = "TYP002" // arity mismatch
	TYP003 = "TYP003" // overload resolution failed
	TYP004 = "TYP004" // ambiguous overload
	TYP005 = "TYP005" // inheritance conflict
	TYP006 = "TYP006" // undefined member
	TYP007 = "TYP007" // interface not satisfied
	TYP008 = "TYP008" // raise type not in function's result union
	TYP009 = "TYP009" // circular inheritance

	// Generic/instantiation errors (GEN###)
	GEN001 = "GEN001" // substitution failed
	GEN002 = "GEN002" // inference failed
	GEN003 = "GEN003" // generic instantiation marked failed, reuse suppressed

	// Comptime errors (CTM###)
	CTM001 = "CTM001" // non-foldable expression
	CTM002 = "CTM002" // unsupported introspection
	CTM003 = "CTM003" // arity mismatch in macro expansion
	CTM004 = "CTM004" // comptime recursion guard tripped

	// Shaker errors (SHK###)
	SHK001 = "SHK001" // multi-var declaration count mismatch against a tuple literal
	SHK002 = "SHK002" // catch block does not yield a value on its final statement
	SHK003 = "SHK003" // malformed reserved macro call (parser/shaker invariant mismatch)

	// Plugin errors (PLG###)
	PLG001 = "PLG001" // load failure
	PLG002 = "PLG002" // missing action
	PLG003 = "PLG003" // action returned failure

	// Module/driver errors (MOD###)
	MOD001 = "MOD001" // module not found
	MOD002 = "MOD002" // import cycle detected as a true cycle
	MOD003 = "MOD003" // duplicate module declaration

	// Internal errors (INT###) — assertion failure, aborts the process
	INT001 = "INT001"
)

// Phase names used in Report.Phase, mirroring spec.md §2's component table.
const (
	PhaseLexer     = "lexer"
	PhaseParser    = "parser"
	PhaseBinder    = "binder"
	PhaseComptime  = "comptime"
	PhaseShaker    = "shaker"
	PhaseCheck     = "typecheck"
	PhaseSimplify  = "simplify"
	PhaseDriver    = "driver"
	PhasePlugin    = "plugin"
	PhasePreproc   = "preprocess"
)
</content>
