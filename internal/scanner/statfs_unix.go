//go:build unix

package scanner

import "golang.org/x/sys/unix"

// freeBlocks reads the free-block count off root's filesystem via statvfs,
// the TurboScan change-detection signal (§4.4 step 2).
func freeBlocks(root string) (uint64, error) {
	var stat unix.Statfs_t
	if err := unix.Statfs(root, &stat); err != nil {
		return 0, err
	}
	return stat.Bfree, nil
}
