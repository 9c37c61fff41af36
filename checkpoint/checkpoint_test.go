package checkpoint

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckpt")
	s := New(2, 1000, 10000, 0, 1_000_000, 3, 997)
	require.NoError(t, Save(path, s))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, cmp.Equal(s, loaded), "round-tripped state must equal the original: %s", cmp.Diff(s, loaded))

	next, err := Resume(loaded, 2, 1000, 10000, 0, 1_000_000)
	require.NoError(t, err)
	require.Equal(t, uint64(998), next)
}

func TestResumeRejectsParameterMismatch(t *testing.T) {
	s := New(2, 1000, 10000, 0, 1_000_000, 3, 997)
	_, err := Resume(s, 2, 1000, 99999, 0, 1_000_000)
	require.Error(t, err)
}

func TestLoadRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ckpt")
	s := New(2, 1000, 10000, 0, 1_000_000, 3, 997)
	require.NoError(t, Save(path, s))

	s.Pmin = 3 // mutate after the fingerprint was stamped in, then overwrite
	require.NoError(t, Save(path, s))

	_, err := Load(path)
	require.Error(t, err)
}
