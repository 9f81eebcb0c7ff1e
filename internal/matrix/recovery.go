package matrix

import (
	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/gfmerr"
)

// Recovery is the NxN inverse of a surviving-row submatrix of D, paired
// with the source shard index each of its rows was drawn from. Applying
// it to any N surviving rows reconstructs the original N data rows.
type Recovery struct {
	numData int
	inv     [][]byte // N x N
	source  []int    // length N: originating shard index per target row
}

// Source returns the shard index row i's coefficients were drawn from.
// For a row that survived unmodified this equals i.
func (r *Recovery) Source(i int) int { return r.source[i] }

// Row returns the NxN inverse's row i.
func (r *Recovery) Row(i int) []byte { return r.inv[i] }

// NumData returns N.
func (r *Recovery) NumData() int { return r.numData }

// Derive builds the recovery plan from the liveness flags on g. At least
// N rows of g must be alive.
func Derive(field *gf.Field, g *Generator) (*Recovery, error) {
	n := g.NumData()
	total := g.Rows()

	aliveCount := 0
	for i := 0; i < total; i++ {
		if g.Alive(i) {
			aliveCount++
		}
	}
	if aliveCount < n {
		return nil, errors.Wrapf(gfmerr.ErrMissingShards, "need %d surviving rows, have %d", n, aliveCount)
	}

	tmp := make([][]byte, n)
	source := make([]int, n)
	inv := make([][]byte, n)
	for i := range inv {
		inv[i] = make([]byte, n)
		inv[i][i] = 1
	}

	// When replacing a failed row, always take the highest-indexed
	// surviving row not yet used: tst persists across the whole loop so
	// each replacement is distinct.
	tst := total
	for r := 0; r < n; r++ {
		cpy := r
		if !g.Alive(r) {
			tst--
			for !g.Alive(tst) {
				tst--
				if tst <= r {
					return nil, errors.Wrap(gfmerr.ErrInternalInvariant, "ran out of surviving rows during recovery planning")
				}
			}
			cpy = tst
		}
		row := make([]byte, n)
		copy(row, g.Row(cpy))
		tmp[r] = row
		source[r] = cpy
	}

	if err := gaussJordan(field, tmp, inv, n); err != nil {
		return nil, err
	}

	rec := &Recovery{numData: n, inv: inv, source: source}
	if err := rec.verify(field, tmp, g); err != nil {
		return nil, err
	}
	return rec, nil
}

// gaussJordan reduces tmp to the identity in place, applying every
// elementary operation simultaneously to inv, so inv ends up holding
// tmp's original inverse.
func gaussJordan(field *gf.Field, tmp, inv [][]byte, n int) error {
	// Lower-triangular elimination.
	for c := 0; c < n-1; c++ {
		if tmp[c][c] == 0 {
			return errors.Wrapf(gfmerr.ErrMatrixSingular, "zero pivot at column %d during lower elimination", c)
		}
		ref := tmp[c][c]
		for r := c + 1; r < n; r++ {
			val := tmp[r][c]
			if val == 0 {
				continue
			}
			k, err := field.Div(ref, val)
			if err != nil {
				return err
			}
			scaleRow(field, tmp[r], k)
			scaleRow(field, inv[r], k)
			xorRow(tmp[r], tmp[c])
			xorRow(inv[r], inv[c])
		}
	}

	// Upper-triangular elimination.
	for c := 1; c < n; c++ {
		if tmp[c][c] == 0 {
			return errors.Wrapf(gfmerr.ErrMatrixSingular, "zero pivot at column %d during upper elimination", c)
		}
		ref := tmp[c][c]
		for r := 0; r < c; r++ {
			val := tmp[r][c]
			if val == 0 {
				continue
			}
			k, err := field.Div(ref, val)
			if err != nil {
				return err
			}
			scaleRow(field, tmp[r], k)
			scaleRow(field, inv[r], k)
			xorRow(tmp[r], tmp[c])
			xorRow(inv[r], inv[c])
		}
	}

	// Normalize the diagonal to 1.
	for i := 0; i < n; i++ {
		inverse, err := field.Div(1, tmp[i][i])
		if err != nil {
			return errors.Wrapf(gfmerr.ErrMatrixSingular, "zero on diagonal[%d] during normalization", i)
		}
		scaleRow(field, tmp[i], inverse)
		scaleRow(field, inv[i], inverse)
	}
	return nil
}

func scaleRow(field *gf.Field, row []byte, k byte) {
	for i := range row {
		row[i] = field.Mult(row[i], k)
	}
}

func xorRow(dst, src []byte) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}

// verify checks (tmp*inv)[i][j] == (inv*tmp)[i][j] for all i,j, and that
// non-failed rows reduce to the identity.
func (r *Recovery) verify(field *gf.Field, tmp [][]byte, g *Generator) error {
	n := r.numData
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var a, b byte
			for k := 0; k < n; k++ {
				a ^= field.Mult(tmp[i][k], r.inv[k][j])
				b ^= field.Mult(r.inv[i][k], tmp[k][j])
			}
			if a != b {
				return errors.Wrapf(gfmerr.ErrInternalInvariant, "tmp*inv != inv*tmp at [%d][%d]", i, j)
			}
			if g.Alive(i) {
				want := byte(0)
				if i == j {
					want = 1
				}
				if a != want {
					return errors.Wrapf(gfmerr.ErrInternalInvariant, "recovery plan not identity for surviving row %d at column %d", i, j)
				}
			}
		}
	}
	return nil
}
