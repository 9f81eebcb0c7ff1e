// Package payload holds the embedded bootstrap archive placed at the
// front of every shard header. Its contents are
// opaque to the erasure coding engine: the core only guarantees
// placement (see internal/shard) and that decoding with zero shards open
// writes it out verbatim (see engine.Decode and shard.WritePayload).
package payload

import _ "embed"

// Blob is the fixed archive copied verbatim into every shard's header and
// written out whole when decode finds no shards to open.
//
//go:embed bootstrap.tar
var Blob []byte
