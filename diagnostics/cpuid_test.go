package diagnostics

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveCoresHonorsExplicitRequest(t *testing.T) {
	require.Equal(t, 4, ResolveCores(4))
}

func TestResolveCoresDefaultsToAllLogicalProcessors(t *testing.T) {
	require.GreaterOrEqual(t, ResolveCores(0), 1)
}

func TestCaptureWriteProducesOneLine(t *testing.T) {
	r := Capture(2)
	require.Equal(t, 2, r.Cores)

	var buf bytes.Buffer
	r.Write(&buf)
	require.Contains(t, buf.String(), "cores=2")
	require.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}
