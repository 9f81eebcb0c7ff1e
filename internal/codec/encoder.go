package codec

import (
	"sync"

	"github.com/pkg/errors"
	"github.com/templexxx/xorsimd"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/matrix"
)

// Encoder computes the M parity blocks of a stripe from its N data blocks,
// using the bottom M rows of a generator matrix.
type Encoder struct {
	field *gf.Field
	gen   *matrix.Generator
}

// NewEncoder binds an encoder to a field and a fully-built generator
// matrix. The generator is treated as read-only for the encoder's
// lifetime.
func NewEncoder(field *gf.Field, gen *matrix.Generator) *Encoder {
	return &Encoder{field: field, gen: gen}
}

// Parity fills rows[N:] from rows[:N]. All N+M rows must be present and
// equal in length; the data rows are left untouched.
func (e *Encoder) Parity(rows [][]byte) error {
	n := e.gen.NumData()
	m := e.gen.NumParity()
	if len(rows) != n+m {
		return errors.Errorf("codec: expected %d rows, got %d", n+m, len(rows))
	}
	length := len(rows[0])
	for _, row := range rows {
		if len(row) != length {
			return errors.New("codec: mismatched row lengths")
		}
	}
	for r := 0; r < m; r++ {
		zeroBytes(rows[n+r])
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
			e.parityRange(rows, start, end)
		}(rg[0], rg[1])
	}
	wg.Wait()
	return nil
}

// ParityVector is the single-stripe (len=1) form of Parity: vec[0:N] is
// input, vec[N:N+M] receives the parity byte per row.
func (e *Encoder) ParityVector(vec []byte) error {
	rows := make([][]byte, len(vec))
	for i := range vec {
		rows[i] = vec[i : i+1]
	}
	return e.Parity(rows)
}

func (e *Encoder) parityRange(rows [][]byte, start, end int) {
	n := e.gen.NumData()
	m := e.gen.NumParity()
	width := end - start
	terms := make([][]byte, n)
	for i := range terms {
		terms[i] = make([]byte, width)
	}
	for r := 0; r < m; r++ {
		coeffRow := e.gen.Row(n + r)
		for c := 0; c < n; c++ {
			mt := e.field.MultRow(coeffRow[c])
			src := rows[c][start:end]
			dst := terms[c]
			for i, v := range src {
				dst[i] = mt[v]
			}
		}
		xorsimd.Encode(rows[n+r][start:end], terms)
	}
}

func zeroBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
