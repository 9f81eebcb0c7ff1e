package shard

import "github.com/gfmtools/gfm/internal/codec"

// DataAreaSize returns the usable byte capacity of a final stripe's N*B
// data area: N*B bytes total, minus the one trailing byte reserved for
// the padding descriptor flag.
func DataAreaSize(numData int) int {
	return numData*codec.BlockSize - 1
}

// ApplyPadding writes the padding descriptor into dataArea (length N*B)
// given that only numRead of its first N*B-1 usable bytes hold real data.
// The bytes dataArea[numRead:len(dataArea)-1] must already be zeroed by
// the caller; ApplyPadding only touches the descriptor bytes.
func ApplyPadding(dataArea []byte, numRead int) {
	flagIdx := len(dataArea) - 1
	missing := flagIdx - numRead
	switch {
	case missing == 0:
		dataArea[flagIdx] = 0
	case missing < 0x80:
		dataArea[flagIdx] = byte(missing)
	default:
		dataArea[flagIdx] = 0x80
		putUint32LE(dataArea[flagIdx-8:flagIdx-4], uint32(missing))
	}
}

// StripPadding returns the number of usable data bytes in dataArea,
// reading back whichever of the three descriptor forms ApplyPadding wrote.
func StripPadding(dataArea []byte) int {
	flagIdx := len(dataArea) - 1
	flag := dataArea[flagIdx]
	if flag == 0 {
		return flagIdx
	}
	if flag < 0x80 {
		return flagIdx - int(flag)
	}
	missing := getUint32LE(dataArea[flagIdx-8 : flagIdx-4])
	return flagIdx - int(missing)
}
