package shard

import "fmt"

// Filename returns STUB concatenated with a two-character lowercase hex
// shard index.
func Filename(stub string, index int) string {
	return fmt.Sprintf("%s%02x", stub, index)
}
