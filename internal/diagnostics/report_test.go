package diagnostics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLogStopsAtLimit(t *testing.T) {
	l := NewLog(2, nil)
	l.Error(PhaseCheck, TYP001, nil, "bad %d", 1)
	l.Error(PhaseCheck, TYP001, nil, "bad %d", 2)
	l.Error(PhaseCheck, TYP001, nil, "bad %d", 3)
	require.Equal(t, 2, l.ErrorCount())
	require.True(t, l.LimitReached())
}

func TestWarningMaskFiltersDefaultOff(t *testing.T) {
	l := NewLog(0, nil)
	l.Warning(PhaseCheck, WarnMissingStage, nil, "missing stage")
	require.Equal(t, 0, l.WarningCount())

	l.Warning(PhaseCheck, WarnUnusedVariable, nil, "unused x")
	require.Equal(t, 1, l.WarningCount())
}

func TestReportErrorRoundTrip(t *testing.T) {
	r := &Report{Code: TYP002, Message: "arity mismatch"}
	err := WrapReport(r)
	got, ok := AsReport(err)
	require.True(t, ok)
	require.Equal(t, r, got)
}

func TestDiagnosticsNeverDecrease(t *testing.T) {
	l := NewLog(0, nil)
	l.Error(PhaseParser, PAR001, nil, "x")
	require.Equal(t, 1, len(l.Reports()))
	l.Error(PhaseCheck, TYP001, nil, "y")
	require.Equal(t, 2, len(l.Reports()))
}
</content>
