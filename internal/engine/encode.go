// Package engine drives one encode or decode session end to end: building
// the field and generator matrix, streaming stripes through the codec, and
// handling the per-stripe padding descriptor on the final block.
// Everything here is orchestration; the algorithms live in gf, matrix and
// codec.
package engine

import (
	"io"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/codec"
	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/matrix"
	"github.com/gfmtools/gfm/internal/shard"
)

// Encode reads src to EOF, splits it into numData-way stripes of
// codec.BlockSize bytes, computes numParity parity blocks per stripe with
// the generator matrix's bottom rows, and writes numData+numParity shard
// files plus a manifest under stub.
func Encode(stub string, numData, numParity int, src io.Reader) error {
	field := gf.New()
	gen, err := matrix.Build(field, numData, numParity)
	if err != nil {
		return err
	}
	enc := codec.NewEncoder(field, gen)

	w, err := shard.Create(stub, numData, numParity)
	if err != nil {
		return err
	}

	dataAreaLen := numData * codec.BlockSize
	usableLen := shard.DataAreaSize(numData) // dataAreaLen - 1
	flat := make([]byte, dataAreaLen)
	rows := make([][]byte, numData+numParity)
	for i := range rows {
		rows[i] = make([]byte, codec.BlockSize)
	}

	for {
		for i := range flat {
			flat[i] = 0
		}
		numRead, err := io.ReadFull(src, flat[:usableLen])
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			w.Close()
			return errors.Wrap(err, "reading input stream")
		}

		shard.ApplyPadding(flat, numRead)
		w.UpdateStreamDigest(flat[:numRead])

		for i := 0; i < numData; i++ {
			copy(rows[i], flat[i*codec.BlockSize:(i+1)*codec.BlockSize])
		}
		if err := enc.Parity(rows); err != nil {
			w.Close()
			return err
		}
		if err := w.WriteStripe(rows); err != nil {
			w.Close()
			return err
		}

		if numRead != usableLen {
			break
		}
	}

	return w.Close()
}
