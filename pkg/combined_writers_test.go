package pkg

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type faultyWriter struct{}

func (fw *faultyWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("no can do")
}

func TestCombinedWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb1.WriteString("already-here")
	sb2 := &strings.Builder{}

	cw := NewCombinedWriter(sb1, sb2)
	require.NotNil(t, cw)
	assert.Len(t, cw.Writers, 2)

	msg := "uma mensagem"
	n, err := cw.Write([]byte(msg))
	require.NoError(t, err)
	assert.Equal(t, len(msg)*len(cw.Writers), n, "n counts bytes across all writers")

	assert.Equal(t, "already-here"+msg, sb1.String())
	assert.Equal(t, msg, sb2.String())
}

func TestCombinedWriter_Write_WithError(t *testing.T) {
	fw := &faultyWriter{}
	sb := &strings.Builder{}

	cw := NewCombinedWriter(fw, sb)
	require.NotNil(t, cw)

	msg := "uma mensagem"
	n, err := cw.Write([]byte(msg))
	require.Error(t, err)
	assert.Equal(t, len(msg), n, "the healthy writer still got the bytes")
	assert.Equal(t, msg, sb.String())
}
