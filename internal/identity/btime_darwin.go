//go:build darwin

package identity

import (
	"io/fs"
	"time"

	"golang.org/x/sys/unix"
)

func creationTime(path string, _ fs.FileInfo) (time.Time, bool) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return time.Time{}, false
	}
	sec, nsec := st.Btim.Unix()
	if sec == 0 && nsec == 0 {
		return time.Time{}, false
	}
	return time.Unix(sec, nsec), true
}
