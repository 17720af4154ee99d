package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineFormatting(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)

	s.Line("4", "root/sub")
	s.Line("8", "root")
	s.Line("12345678901", "wide")
	require.NoError(t, s.Flush())

	assert.Equal(t,
		"4          root/sub\n"+
			"8          root\n"+
			"12345678901 wide\n",
		buf.String())
}

func TestTotal(t *testing.T) {
	var buf bytes.Buffer
	s := NewSink(&buf)
	s.Total("3.4M")
	require.NoError(t, s.Flush())
	assert.Equal(t, "3.4M       total\n", buf.String())
}

func TestAppend(t *testing.T) {
	var branch bytes.Buffer
	bs := NewSink(&branch)
	bs.Line("1", "a")
	require.NoError(t, bs.Flush())

	var out bytes.Buffer
	s := NewSink(&out)
	s.Append(branch.Bytes())
	s.Line("2", "b")
	require.NoError(t, s.Flush())

	assert.Equal(t, "1          a\n2          b\n", out.String())
}
