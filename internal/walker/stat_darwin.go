//go:build darwin

package walker

import "golang.org/x/sys/unix"

// statIdentity extracts the device+inode key from a Stat_t.
func statIdentity(st *unix.Stat_t) identity {
	return identity{
		dev: uint64(st.Dev), //nolint:gosec // G115: dev_t is int32 on darwin, always non-negative
		ino: st.Ino,
	}
}

// statNlink returns the link count from a Stat_t.
func statNlink(st *unix.Stat_t) uint64 {
	return uint64(st.Nlink)
}
