//go:build !unix

package scanner

import "errors"

// freeBlocks has no portable implementation; a root on a non-unix runtime
// always takes the FullScan path (TurboScan is best-effort, per §4.4 — it
// exists purely as an optimization, never a correctness requirement).
func freeBlocks(root string) (uint64, error) {
	return 0, errors.New("scanner: statvfs unsupported on this platform")
}
