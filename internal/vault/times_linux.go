//go:build linux

package vault

import (
	"os"
	"syscall"
	"time"
)

// birthTime approximates creation time with the inode change time. Linux
// only exposes true birth time through statx, which os.FileInfo does not
// surface; ctime is the closest stat field and matches it for files that
// are created and never chmod'd afterwards.
func birthTime(info os.FileInfo) (time.Time, bool) {
	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(st.Ctim.Sec, st.Ctim.Nsec), true
}
