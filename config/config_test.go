package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func validArgs() []string {
	return []string{"4", "3", "2", "1000", "100000", "500000"}
}

func TestParseAcceptsValidCommandLine(t *testing.T) {
	cfg, err := Parse(validArgs())
	require.NoError(t, err)
	require.Equal(t, 4, cfg.Cores)
	require.Equal(t, uint64(3), cfg.K)
	require.Equal(t, uint64(2), cfg.Pmin)
	require.Equal(t, uint64(1000), cfg.Pmax)
	require.Equal(t, uint64(100000), cfg.Dmax)
	require.Equal(t, uint64(0), cfg.SubprimeP0)
	require.Equal(t, 6, cfg.PhaseLimit)
}

func TestParseRejectsBadKResidue(t *testing.T) {
	args := []string{"4", "4", "2", "1000", "100000", "500000"}
	_, err := Parse(args)
	require.Error(t, err)
}

func TestParseRejectsOutOfOrderBounds(t *testing.T) {
	args := []string{"4", "3", "1000", "2", "100000", "500000"}
	_, err := Parse(args)
	require.Error(t, err)
}

func TestParseRejectsZmaxBelowBound(t *testing.T) {
	args := []string{"4", "3", "2", "1000", "100000", "100000"}
	_, err := Parse(args)
	require.Error(t, err)
}

func TestParseAllowsLowZmaxWithPhaseRestriction(t *testing.T) {
	args := []string{"4", "3", "2", "1000", "100000", "100000", "1"}
	cfg, err := Parse(args)
	require.NoError(t, err)
	require.Equal(t, 1, cfg.PhaseLimit)
}

func TestParseSubprimeMode(t *testing.T) {
	args := []string{"4", "3", "7x2", "7x500", "100000", "500000"}
	cfg, err := Parse(args)
	require.NoError(t, err)
	require.Equal(t, uint64(7), cfg.SubprimeP0)
	require.Equal(t, uint64(14), cfg.Pmin)
	require.Equal(t, uint64(3500), cfg.Pmax)
}

func TestParseRejectsSubprimeP0DividingK(t *testing.T) {
	args := []string{"4", "3", "3x2", "3x500", "100000", "500000"}
	_, err := Parse(args)
	require.Error(t, err)
}

func TestParseExpectTokens(t *testing.T) {
	args := append(validArgs(), "pcnt=10", "rcnt=2")
	cfg, err := Parse(args)
	require.NoError(t, err)
	require.Equal(t, uint64(10), cfg.Expect.Pcnt)
	require.Equal(t, uint64(2), cfg.Expect.Rcnt)
}

func TestParseRejectsUnrecognizedTrailingToken(t *testing.T) {
	args := append(validArgs(), "bogus=1")
	_, err := Parse(args)
	require.Error(t, err)
}

func TestParseRejectsTooFewArguments(t *testing.T) {
	_, err := Parse([]string{"4", "3"})
	require.Error(t, err)
}
