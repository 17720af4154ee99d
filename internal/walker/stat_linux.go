//go:build linux

package walker

import "golang.org/x/sys/unix"

// statIdentity extracts the device+inode key from a Stat_t.
func statIdentity(st *unix.Stat_t) identity {
	return identity{dev: st.Dev, ino: st.Ino}
}

// statNlink returns the link count from a Stat_t.
func statNlink(st *unix.Stat_t) uint64 {
	return st.Nlink
}
