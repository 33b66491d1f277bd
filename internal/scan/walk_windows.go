//go:build windows

package scan

import (
	"io/fs"
	"os"
)

type fileID struct{}

type usage struct {
	bytes  int64
	dev    uint64
	hasDev bool
	link   fileID
	linked bool
}

// entryUsage returns the logical size; NTFS allocation and hard links are
// not inspected, and drives are separate roots so no device check applies.
func entryUsage(info fs.FileInfo) usage {
	if info.IsDir() {
		return usage{}
	}
	return usage{bytes: info.Size()}
}

func rootUsage(path string) (usage, bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return usage{}, false, err
	}
	return entryUsage(info), info.IsDir(), nil
}
