package engine

import (
	"io"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/codec"
	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/gfmerr"
	"github.com/gfmtools/gfm/internal/matrix"
	"github.com/gfmtools/gfm/internal/shard"
)

// Decode opens whatever shards named stub it can, reconstructs the
// original stream stripe by stripe, strips the final stripe's padding
// descriptor, and writes the result to dst. If no shard opens at all, it
// creates a file named stub and writes the embedded bootstrap payload
// there instead, falling back to dst only when stub is "-"; in that case
// it returns only an error from writing the payload (for example, when a
// file named stub already exists).
func Decode(stub string, dst io.Writer) error {
	r, err := shard.Open(stub)
	if err != nil {
		return err
	}
	if r == nil {
		return shard.WritePayload(stub, dst)
	}
	defer r.Close()

	numData := r.NumData()
	numParity := r.NumParity()
	total := numData + numParity

	if r.AliveCount() < numData {
		return errors.Wrapf(gfmerr.ErrMissingShards, "only %d of %d shards opened, need %d", r.AliveCount(), total, numData)
	}

	field := gf.New()
	gen, err := matrix.Build(field, numData, numParity)
	if err != nil {
		return err
	}
	for i := 0; i < total; i++ {
		if !r.Alive(i) {
			gen.Fail(i)
		}
	}

	rows := make([][]byte, total)
	for i := range rows {
		rows[i] = make([]byte, codec.BlockSize)
	}
	flat := make([]byte, numData*codec.BlockSize)

	var rec *matrix.Recovery
	for {
		supplied, err := r.ReadStripe(rows)
		if err != nil {
			return err
		}
		if supplied == 0 {
			break
		}

		changed := false
		for i := 0; i < total; i++ {
			if !r.Alive(i) && gen.Alive(i) {
				gen.Fail(i)
				changed = true
			}
		}
		if r.AliveCount() < numData {
			return errors.Wrapf(gfmerr.ErrMissingShards, "shard dropped below %d surviving during decode", numData)
		}
		if rec == nil || changed {
			rec, err = matrix.Derive(field, gen)
			if err != nil {
				return err
			}
		}
		dec := codec.NewDecoder(field, rec)

		if err := dec.Reconstruct(rows); err != nil {
			return err
		}

		for i := 0; i < numData; i++ {
			copy(flat[i*codec.BlockSize:(i+1)*codec.BlockSize], rows[i])
		}

		usable := shard.StripPadding(flat)
		if _, err := dst.Write(flat[:usable]); err != nil {
			return errors.Wrap(err, "writing reconstructed stream")
		}

		if usable != shard.DataAreaSize(numData) {
			break
		}
	}

	return nil
}
