// Package shard implements the per-shard file framing, filename scheme,
// padding descriptor and MD5 manifest - the external collaborators the
// core erasure-coding engine treats as fixed interfaces.
package shard

import (
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/codec"
	"github.com/gfmtools/gfm/internal/gfmerr"
)

// Signature is the 4-byte header written after the embedded payload in
// every shard file: the data and parity shard counts, this shard's
// index, and the block size as a power of two.
type Signature struct {
	NumData      byte
	NumParity    byte
	FileNum      byte
	BlockSizePo2 byte
}

// sizeSignature is sizeof(Signature) on the wire: four bytes, no padding.
const sizeSignature = 4

func (s Signature) marshal() []byte {
	return []byte{s.NumData, s.NumParity, s.FileNum, s.BlockSizePo2}
}

func unmarshalSignature(b []byte) Signature {
	return Signature{NumData: b[0], NumParity: b[1], FileNum: b[2], BlockSizePo2: b[3]}
}

// compatible reports whether two signatures agree on the fields that must
// match across every shard in a set: numData, numParity and
// blocksizePo2. fileNum is per-shard and deliberately excluded.
func (s Signature) compatible(other Signature) bool {
	return s.NumData == other.NumData &&
		s.NumParity == other.NumParity &&
		s.BlockSizePo2 == other.BlockSizePo2
}

// headerLen is the byte length of payload + signature + zero pad, rounded
// up to the next block boundary.
func headerLen(payloadLen int) int64 {
	total := payloadLen + sizeSignature
	rem := total % codec.BlockSize
	if rem == 0 {
		return int64(total)
	}
	return int64(total + (codec.BlockSize - rem))
}

// writeHeader writes the embedded payload, the signature, and zero
// padding up to the next block boundary.
func writeHeader(w io.Writer, payload []byte, sig Signature) error {
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "writing embedded payload")
	}
	if _, err := w.Write(sig.marshal()); err != nil {
		return errors.Wrap(err, "writing signature")
	}
	total := int64(len(payload) + sizeSignature)
	padded := headerLen(len(payload))
	if pad := padded - total; pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return errors.Wrap(err, "writing header padding")
		}
	}
	return nil
}

// readSignature reads and validates a shard's header, returning the
// signature and the byte offset of the shard body (the first block).
// The payload length is supplied by the caller (internal/payload.Blob),
// since it is fixed per build rather than stored in the file.
func readSignature(r io.ReaderAt, payloadLen int) (Signature, int64, error) {
	buf := make([]byte, sizeSignature)
	if _, err := r.ReadAt(buf, int64(payloadLen)); err != nil {
		return Signature{}, 0, errors.Wrap(err, "reading signature")
	}
	sig := unmarshalSignature(buf)
	if sig.BlockSizePo2 != codec.BlockSizePo2 {
		return Signature{}, 0, errors.Wrapf(gfmerr.ErrSignatureMismatch, "blocksizePo2 %d != %d", sig.BlockSizePo2, codec.BlockSizePo2)
	}
	return sig, headerLen(payloadLen), nil
}

// putUint32LE is a small helper kept local so the padding descriptor's
// explicit little-endian encoding is never left to native byte order.
func putUint32LE(b []byte, v uint32) { binary.LittleEndian.PutUint32(b, v) }
func getUint32LE(b []byte) uint32    { return binary.LittleEndian.Uint32(b) }
