// Package archive partitions output files under a size bound and writes
// each partition as a deterministic ZIP archive.
//
// Packing is greedy first-fit in input order: no reordering, no
// rebalancing. Sticker sets are small, and users expect "part N" to track
// upload order, so determinism wins over minimal partition count.
package archive

import (
	"fmt"

	"github.com/stickerpress/stickerpress/internal/convert"
)

// Partition is an ordered group of output files destined for one archive.
// Oversized marks the one exception to the size bound: a single file that
// alone exceeds the bound is placed in its own partition rather than
// failing the whole batch. Callers must check the flag before delivery,
// since the downstream transport may reject the oversized payload.
type Partition struct {
	Files     []convert.OutputFile
	Size      int64 // Sum of contained file sizes.
	Oversized bool
}

// PackingError wraps failures of the packing stage: an invalid size bound,
// or I/O errors while reading inputs or writing archives.
type PackingError struct {
	Op  string
	Err error
}

func (e *PackingError) Error() string {
	return fmt.Sprintf("pack: %s: %v", e.Op, e.Err)
}

func (e *PackingError) Unwrap() error { return e.Err }

// Pack partitions files so that no partition's total exceeds maxSizeBytes,
// except for flagged oversized singletons. The input order is preserved
// across partition boundaries; concatenating the partitions' file sets
// reproduces the input exactly. An empty input yields an empty result.
func Pack(files []convert.OutputFile, maxSizeBytes int64) ([]Partition, error) {
	if maxSizeBytes <= 0 {
		return nil, &PackingError{Op: "plan",
			Err: fmt.Errorf("size bound must be positive, got %d", maxSizeBytes)}
	}

	var parts []Partition
	var current Partition
	for _, f := range files {
		if f.Size > maxSizeBytes {
			if len(current.Files) > 0 {
				parts = append(parts, current)
				current = Partition{}
			}
			parts = append(parts, Partition{
				Files:     []convert.OutputFile{f},
				Size:      f.Size,
				Oversized: true,
			})
			continue
		}
		if len(current.Files) > 0 && current.Size+f.Size > maxSizeBytes {
			parts = append(parts, current)
			current = Partition{}
		}
		current.Files = append(current.Files, f)
		current.Size += f.Size
	}
	if len(current.Files) > 0 {
		parts = append(parts, current)
	}
	return parts, nil
}
