//go:build !windows

package scan

import (
	"io/fs"
	"syscall"

	"golang.org/x/sys/unix"
)

// fileID identifies a file across hard links.
type fileID struct {
	dev uint64
	ino uint64
}

// usage is the on-disk footprint of one directory entry.
type usage struct {
	bytes  int64
	dev    uint64
	hasDev bool
	link   fileID
	linked bool
}

// entryUsage returns allocated bytes (st_blocks * 512, the figure du
// reports) plus the device and hard-link identity of info.
func entryUsage(info fs.FileInfo) usage {
	stat, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return usage{bytes: info.Size()}
	}

	u := usage{
		bytes:  int64(stat.Blocks) * 512,
		dev:    uint64(stat.Dev),
		hasDev: true,
	}
	if !info.IsDir() && stat.Nlink > 1 {
		u.link = fileID{dev: uint64(stat.Dev), ino: uint64(stat.Ino)}
		u.linked = true
	}
	return u
}

// rootUsage stats the probe root without following a symlink.
func rootUsage(path string) (usage, bool, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return usage{}, false, err
	}
	isDir := st.Mode&unix.S_IFMT == unix.S_IFDIR
	return usage{
		bytes:  int64(st.Blocks) * 512,
		dev:    uint64(st.Dev),
		hasDev: true,
	}, isDir, nil
}
