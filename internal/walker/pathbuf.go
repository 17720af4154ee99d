package walker

// pathBuf is a growable byte buffer holding one current path. Segments are
// appended on descent and truncated back on return, so full paths are never
// re-joined per recursion level.
type pathBuf struct {
	buf []byte
}

func newPathBuf(root string) pathBuf {
	return pathBuf{buf: append([]byte(nil), root...)}
}

// push appends a path segment and returns the length to truncate back to.
func (p *pathBuf) push(name string) int {
	mark := len(p.buf)
	if mark > 0 && p.buf[mark-1] != '/' {
		p.buf = append(p.buf, '/')
	}
	p.buf = append(p.buf, name...)
	return mark
}

func (p *pathBuf) pop(mark int) {
	p.buf = p.buf[:mark]
}

func (p *pathBuf) String() string {
	return string(p.buf)
}

// walkPath carries the two path views the walk needs: the display path
// (seeded "." when the root is the working directory) and the resolved
// absolute path used for exclusion matching. Both move in lockstep.
type walkPath struct {
	disp pathBuf
	abs  pathBuf
}

type pathMark struct {
	disp, abs int
}

func newWalkPath(display, absolute string) *walkPath {
	return &walkPath{
		disp: newPathBuf(display),
		abs:  newPathBuf(absolute),
	}
}

func (p *walkPath) push(name string) pathMark {
	return pathMark{
		disp: p.disp.push(name),
		abs:  p.abs.push(name),
	}
}

func (p *walkPath) pop(m pathMark) {
	p.disp.pop(m.disp)
	p.abs.pop(m.abs)
}
