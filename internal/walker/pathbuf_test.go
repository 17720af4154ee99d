package walker

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBufPushPop(t *testing.T) {
	p := newPathBuf(".")

	m1 := p.push("sub")
	assert.Equal(t, "./sub", p.String())

	m2 := p.push("file.txt")
	assert.Equal(t, "./sub/file.txt", p.String())

	p.pop(m2)
	assert.Equal(t, "./sub", p.String())

	p.pop(m1)
	assert.Equal(t, ".", p.String())
}

func TestPathBufRootSlash(t *testing.T) {
	p := newPathBuf("/")
	p.push("etc")
	assert.Equal(t, "/etc", p.String())
}

func TestWalkPathLockstep(t *testing.T) {
	p := newWalkPath(".", "/tmp/x")

	m := p.push("a")
	assert.Equal(t, "./a", p.disp.String())
	assert.Equal(t, "/tmp/x/a", p.abs.String())

	p.pop(m)
	assert.Equal(t, ".", p.disp.String())
	assert.Equal(t, "/tmp/x", p.abs.String())
}
