package preprocess

import (
	"strings"
	"testing"

	"github.com/dccarter/cxy/internal/diagnostics"
	"github.com/stretchr/testify/require"
)

func TestDefineAndDefinedGuard(t *testing.T) {
	syms := NewSymbols()
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	src := "@define DEBUG 1\n#if defined(DEBUG)\nvar x = 1\n#else\nvar x = 2\n#endif\n"
	out := e.Expand(src, "t.cxy")

	require.Contains(t, out, "var x = 1")
	require.NotContains(t, out, "var x = 2")
	require.Equal(t, 0, log.ErrorCount())
}

func TestElseBranchTaken(t *testing.T) {
	syms := NewSymbols()
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	src := "#if defined(NOPE)\nvar x = 1\n#else\nvar x = 2\n#endif\n"
	out := e.Expand(src, "t.cxy")

	require.NotContains(t, out, "var x = 1")
	require.Contains(t, out, "var x = 2")
}

func TestNestedConditionals(t *testing.T) {
	syms := NewSymbols()
	syms.Define("OUTER", "1")
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	src := "#if defined(OUTER)\n#if defined(INNER)\nvar x = 1\n#else\nvar x = 2\n#endif\n#endif\n"
	out := e.Expand(src, "t.cxy")

	require.NotContains(t, out, "var x = 1")
	require.Contains(t, out, "var x = 2")
}

func TestUnterminatedIfReportsError(t *testing.T) {
	syms := NewSymbols()
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	e.Expand("#if defined(X)\nvar x = 1\n", "t.cxy")
	require.Equal(t, 1, log.ErrorCount())
}

func TestObjectLikeMacroSubstitution(t *testing.T) {
	syms := NewSymbols()
	syms.Define("MAX_SIZE", "64")
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	out := e.Expand("var cap = MAX_SIZE\n", "t.cxy")
	require.Contains(t, out, "var cap = 64")
}

func TestCBuildDirectivesCollected(t *testing.T) {
	syms := NewSymbols()
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	src := "@cDefine USE_MMAP 1\n@cInclude \"sys/mman.h\"\n@cSources \"native/mmap.c\"\nvar x = 1\n"
	out := e.Expand(src, "t.cxy")

	require.Contains(t, out, "var x = 1")
	require.Equal(t, "1", syms.CDefines["USE_MMAP"])
	require.Equal(t, []string{"sys/mman.h"}, syms.CIncludes)
	require.Equal(t, []string{"native/mmap.c"}, syms.CSources)
}

func TestLineCountPreserved(t *testing.T) {
	syms := NewSymbols()
	log := diagnostics.NewLog(0, nil)
	e := NewExpander(syms, log)

	src := "var a = 1\n#if defined(X)\nvar b = 2\n#endif\nvar c = 3\n"
	out := e.Expand(src, "t.cxy")

	require.Equal(t, strings.Count(src, "\n"), strings.Count(out, "\n"))
}
</content>
