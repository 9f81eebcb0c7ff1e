package codec

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/templexxx/xorsimd"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/matrix"
)

// Decoder reconstructs missing data rows from any N surviving rows (data
// or parity) of a stripe, given a recovery plan.
type Decoder struct {
	field *gf.Field
	rec   *matrix.Recovery
}

// NewDecoder binds a decoder to a field and a recovery plan. The plan is
// treated as read-only for the decoder's lifetime.
func NewDecoder(field *gf.Field, rec *matrix.Recovery) *Decoder {
	return &Decoder{field: field, rec: rec}
}

// Reconstruct rewrites rows[0:N] from whatever survivors are present,
// indexed by absolute shard index (so rows must be at least as long as
// the highest source index the recovery plan references). Rows for which
// the plan says Source(r)==r are left untouched.
func (d *Decoder) Reconstruct(rows [][]byte) error {
	n := d.rec.NumData()

	length := -1
	for i := 0; i < n; i++ {
		src := d.rec.Source(i)
		if src < len(rows) && rows[src] != nil {
			length = len(rows[src])
			break
		}
	}
	if length < 0 {
		return errors.New("codec: no surviving rows available for reconstruction")
	}

	for r := 0; r < n; r++ {
		if d.rec.Source(r) == r {
			continue
		}
		if len(rows[r]) != length {
			rows[r] = make([]byte, length)
		} else {
			zeroBytes(rows[r])
		}
	}
	if length == 0 {
		return nil
	}

	ranges := splitRanges(length)
	var wg sync.WaitGroup
	wg.Add(len(ranges))
	for _, rg := range ranges {
		go func(start, end int) {
			defer wg.Done()
			d.reconstructRange(rows, start, end)
		}(rg[0], rg[1])
	}
	wg.Wait()
	return nil
}

// ReconstructVector is the single-stripe (len=1) form of Reconstruct: the
// input vec is indexed by absolute shard index, and the first N entries
// are rewritten with recovered data bytes.
func (d *Decoder) ReconstructVector(vec []byte) error {
	rows := make([][]byte, len(vec))
	for i := range vec {
		rows[i] = vec[i : i+1]
	}
	if err := d.Reconstruct(rows); err != nil {
		return err
	}
	for i := 0; i < d.rec.NumData(); i++ {
		vec[i] = rows[i][0]
	}
	return nil
}

func (d *Decoder) reconstructRange(rows [][]byte, start, end int) {
	n := d.rec.NumData()
	width := end - start
	terms := make([][]byte, n)
	for i := range terms {
		terms[i] = make([]byte, width)
	}
	for r := 0; r < n; r++ {
		if d.rec.Source(r) == r {
			continue
		}
		coeffRow := d.rec.Row(r)
		for c := 0; c < n; c++ {
			mt := d.field.MultRow(coeffRow[c])
			src := rows[d.rec.Source(c)][start:end]
			dst := terms[c]
			for i, v := range src {
				dst[i] = mt[v]
			}
		}
		xorsimd.Encode(rows[r][start:end], terms)
	}
}
