// Package codec computes parity blocks from data blocks (Encoder) and
// reconstructs missing data blocks from any N surviving blocks (Decoder),
// using the generator matrix and recovery plan built by package matrix.
package codec

import "github.com/klauspost/cpuid/v2"

const (
	// BlockSize is the fixed, process-wide unit of I/O.
	BlockSize = 4096
	// BlockSizePo2 is log2(BlockSize), carried in the shard signature so
	// a future variant could change B without misreading old shards.
	BlockSizePo2 = 12

	minSplitSize  = 1024
	maxGoroutines = 64
)

// splitCount picks how many goroutines to fan a block's per-byte loop
// across, sized off the detected core count rather than a fixed constant.
// Below minSplitSize bytes the per-goroutine overhead isn't worth it.
func splitCount(length int) int {
	if length <= minSplitSize {
		return 1
	}
	g := cpuid.CPU.LogicalCores()
	if g < 1 {
		g = 1
	}
	if g > maxGoroutines {
		g = maxGoroutines
	}
	if chunks := length / minSplitSize; chunks < g {
		g = chunks
	}
	if g < 1 {
		g = 1
	}
	return g
}

func splitRanges(length int) [][2]int {
	g := splitCount(length)
	chunk := (length + g - 1) / g
	var ranges [][2]int
	for start := 0; start < length; start += chunk {
		end := start + chunk
		if end > length {
			end = length
		}
		ranges = append(ranges, [2]int{start, end})
	}
	return ranges
}
