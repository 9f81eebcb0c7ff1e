// Package matrix builds the (N+M)xN generator matrix D and, given a set
// of surviving rows, the NxN recovery plan used to reconstruct missing
// data rows.
package matrix

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/gfmerr"
)

// MaxShards is the hard ceiling on N+M imposed by the one-byte shard index
// and the 2-hex-digit filename encoding.
const MaxShards = 250

// Generator is the (N+M)xN matrix D in systematic form: the top N rows
// are the identity, the bottom M rows carry full-rank parity coefficients.
// Row liveness is tracked alongside D rather than encoded as a sentinel
// value inside it.
type Generator struct {
	field     *gf.Field
	numData   int
	numParity int
	rows      [][]byte // (numData+numParity) rows, numData columns each
	alive     []bool
}

// NumData returns N.
func (g *Generator) NumData() int { return g.numData }

// NumParity returns M.
func (g *Generator) NumParity() int { return g.numParity }

// Rows returns N+M.
func (g *Generator) Rows() int { return g.numData + g.numParity }

// Row returns a read-only view of D's row i (length N).
func (g *Generator) Row(i int) []byte { return g.rows[i] }

// Alive reports whether row i is still usable.
func (g *Generator) Alive(i int) bool { return g.alive[i] }

// Fail marks row i as unusable; it is the authoritative predicate
// consulted by the recovery planner.
func (g *Generator) Fail(i int) { g.alive[i] = false }

// validateShardCounts enforces the allowed range for the data and parity
// shard counts.
func validateShardCounts(numData, numParity int) error {
	if numData < 1 || numData > 249 {
		return errors.Wrapf(gfmerr.ErrInvalidArgument, "numData %d out of range [1,249]", numData)
	}
	if numParity < 1 || numParity > 249 {
		return errors.Wrapf(gfmerr.ErrInvalidArgument, "numParity %d out of range [1,249]", numParity)
	}
	if numData+numParity > MaxShards {
		return errors.Wrapf(gfmerr.ErrInvalidArgument, "numData+numParity %d exceeds %d", numData+numParity, MaxShards)
	}
	return nil
}

// Build constructs D: a Vandermonde-like base reduced to systematic form
// by column-pivoted elimination, scanning pivot candidates in ascending
// column order so any two implementations produce byte-identical matrices
// for the same (N,M).
func Build(field *gf.Field, numData, numParity int) (*Generator, error) {
	if err := validateShardCounts(numData, numParity); err != nil {
		return nil, err
	}

	rows := numData + numParity
	g := &Generator{
		field:     field,
		numData:   numData,
		numParity: numParity,
		rows:      make([][]byte, rows),
		alive:     make([]bool, rows),
	}
	for i := range g.rows {
		g.rows[i] = make([]byte, numData)
		g.alive[i] = true
	}

	// Vandermonde-like base.
	g.rows[0][0] = 1
	for c := 0; c < numData; c++ {
		g.rows[1][c] = 1
	}
	for r := 2; r < rows; r++ {
		g.rows[r][0] = 1
		if numData > 1 {
			g.rows[r][1] = byte(r)
		}
		for c := 2; c < numData; c++ {
			g.rows[r][c] = field.Mult(g.rows[r][c-1], byte(r))
		}
	}

	// Reduce the top N rows to the identity via column operations applied
	// to every row. Rows above r are already reduced and zero outside
	// their own pivot column, so touching them again here would be a
	// no-op; the loop starts at r rather than 0 for that reason. Pivot
	// columns are scanned ascending so the reduction order - and hence
	// the resulting bytes of D - is fully determined.
	for r := 1; r < numData; r++ {
		if g.rows[r][r] == 0 {
			pivot := -1
			for c := r + 1; c < numData; c++ {
				if g.rows[r][c] != 0 {
					pivot = c
					break
				}
			}
			if pivot < 0 {
				return nil, errors.Wrapf(gfmerr.ErrInternalInvariant, "no pivot column found for row %d", r)
			}
			g.swapColumns(r, pivot)
		}

		if g.rows[r][r] != 1 {
			inv, err := field.Div(1, g.rows[r][r])
			if err != nil {
				return nil, errors.Wrap(err, "scaling pivot row")
			}
			for c := 0; c < numData; c++ {
				g.rows[r][c] = field.Mult(inv, g.rows[r][c])
			}
		}

		for c := 0; c < numData; c++ {
			if c == r || g.rows[r][c] == 0 {
				continue
			}
			m := g.rows[r][c]
			for idx := r; idx < rows; idx++ {
				g.rows[idx][c] ^= field.Mult(m, g.rows[idx][r])
			}
		}
	}

	if err := g.checkInvariants(); err != nil {
		return nil, err
	}
	return g, nil
}

// swapColumns exchanges columns a and b across every row from row a
// (inclusive) down: rows above a are already reduced to identity and are
// zero in both columns, so swapping there would be a no-op.
func (g *Generator) swapColumns(a, b int) {
	for idx := a; idx < g.Rows(); idx++ {
		g.rows[idx][a], g.rows[idx][b] = g.rows[idx][b], g.rows[idx][a]
	}
}

func (g *Generator) checkInvariants() error {
	for r := 0; r < g.numData; r++ {
		for c := 0; c < g.numData; c++ {
			want := byte(0)
			if r == c {
				want = 1
			}
			if g.rows[r][c] != want {
				return errors.Wrapf(gfmerr.ErrInternalInvariant, "top block not identity at [%d][%d]=%d", r, c, g.rows[r][c])
			}
		}
	}
	for r := g.numData; r < g.Rows(); r++ {
		for c := 0; c < g.numData; c++ {
			if g.rows[r][c] == 0 {
				return errors.Wrapf(gfmerr.ErrInternalInvariant, "parity row %d has zero entry at column %d", r, c)
			}
		}
	}
	return nil
}

// String renders D as a tab-separated grid, one row per line. The DMP
// dump (diag.DumpMatrix) formats its own grid and does not call String.
func (g *Generator) String() string {
	s := ""
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.numData; c++ {
			s += fmt.Sprintf("\t%d", g.rows[r][c])
		}
		s += "\n"
	}
	return s
}
