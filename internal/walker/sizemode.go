package walker

import "golang.org/x/sys/unix"

// SizeMode selects how raw stat results are converted into accounted sizes.
// It is chosen once per run; the walk itself is oblivious to which
// accounting is active.
type SizeMode int

const (
	// Bytes counts apparent size (stat size); directories contribute nothing.
	Bytes SizeMode = iota
	// DiskBytes counts allocated storage: 512-byte blocks, in bytes.
	DiskBytes
	// DiskBlocks counts allocated storage in 1K units.
	DiskBlocks
)

// FileSize returns the accounted size of a non-directory entry.
func (m SizeMode) FileSize(st *unix.Stat_t) int64 {
	switch m {
	case Bytes:
		return st.Size
	case DiskBytes:
		return st.Blocks * 512
	default:
		return st.Blocks * 512 / 1024
	}
}

// DirSize returns the accounted size of a directory node itself.
func (m SizeMode) DirSize(st *unix.Stat_t) int64 {
	if m == Bytes {
		return 0
	}
	return m.FileSize(st)
}
