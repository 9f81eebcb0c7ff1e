// Package selftest implements the BIT environment variable's built-in
// test: Field laws, generator matrix invariants, and a miniature
// encode/recover round trip, run against the same packages the process
// would otherwise use.
package selftest

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/codec"
	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/gfmerr"
	"github.com/gfmtools/gfm/internal/matrix"
)

// representativeN, representativeM size the matrix and round-trip checks:
// small enough to run in a fraction of a second, with M >= 2 so the round
// trip can fail two rows at once.
const (
	representativeN = 6
	representativeM = 4
)

// Run exercises the field laws, the generator matrix invariants for a
// representative (N,M), and an encode/recover round trip. It returns the
// first failure found, wrapped with enough context to log directly.
func Run() error {
	field := gf.New()
	if err := fieldLaws(field); err != nil {
		return errors.Wrap(err, "field self-test")
	}

	gen, err := matrix.Build(field, representativeN, representativeM)
	if err != nil {
		return errors.Wrap(err, "matrix self-test")
	}

	if err := roundTrip(field, gen); err != nil {
		return errors.Wrap(err, "round-trip self-test")
	}
	return nil
}

func fieldLaws(f *gf.Field) error {
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			ab := f.Mult(byte(a), byte(b))
			ba := f.Mult(byte(b), byte(a))
			if ab != ba {
				return fmt.Errorf("mult not commutative: %d*%d=%d, %d*%d=%d", a, b, ab, b, a, ba)
			}
		}
	}
	for a := 1; a < 256; a++ {
		for b := 1; b < 256; b++ {
			for c := 1; c < 256; c++ {
				left := f.Mult(byte(a), f.Mult(byte(b), byte(c)))
				right := f.Mult(f.Mult(byte(a), byte(b)), byte(c))
				if left != right {
					return fmt.Errorf("mult not associative at (%d,%d,%d)", a, b, c)
				}
			}
		}
		break // full N^3 scan is the job of internal/gf's unit tests; BIT samples row 1
	}
	for a := 1; a < 256; a++ {
		for b := 0; b < 256; b++ {
			for c := 0; c < 256; c++ {
				left := f.Mult(byte(a), byte(b)^byte(c))
				right := f.Mult(byte(a), byte(b)) ^ f.Mult(byte(a), byte(c))
				if left != right {
					return fmt.Errorf("mult not distributive over xor at (%d,%d,%d)", a, b, c)
				}
			}
		}
		break
	}
	for a := 0; a < 256; a++ {
		for b := 1; b < 256; b++ {
			ab := f.Mult(byte(a), byte(b))
			got, err := f.Div(ab, byte(b))
			if err != nil {
				return errors.Wrapf(err, "div(%d,%d)", ab, b)
			}
			if got != byte(a) {
				return fmt.Errorf("div inverse failed: (%d*%d)/%d = %d, want %d", a, b, b, got, a)
			}
		}
	}
	for a := 1; a < 256; a++ {
		if f.ILog(int(f.Log(byte(a)))) != byte(a) {
			return fmt.Errorf("ilog(log(%d)) != %d", a, a)
		}
	}
	for e := 0; e < 255; e++ {
		a := f.ILog(e)
		if a == 0 {
			return fmt.Errorf("ilog(%d) == 0, should never happen", e)
		}
		if int(f.Log(a)) != e {
			return fmt.Errorf("log(ilog(%d)) != %d", e, e)
		}
	}
	return nil
}

func roundTrip(field *gf.Field, gen *matrix.Generator) error {
	n := gen.NumData()
	m := gen.NumParity()
	total := n + m

	const length = 257 // deliberately not a multiple of anything convenient
	rows := make([][]byte, total)
	for i := range rows {
		rows[i] = make([]byte, length)
		for j := range rows[i] {
			rows[i][j] = byte((i+1)*31 + j*7)
		}
	}
	original := make([][]byte, n)
	for i := 0; i < n; i++ {
		original[i] = append([]byte(nil), rows[i]...)
	}

	enc := codec.NewEncoder(field, gen)
	if err := enc.Parity(rows); err != nil {
		return err
	}

	if m < 2 {
		return errors.Wrap(gfmerr.ErrInternalInvariant, "representative M too small to exercise multi-failure recovery")
	}
	gen.Fail(0)
	gen.Fail(total - 1)

	rec, err := matrix.Derive(field, gen)
	if err != nil {
		return err
	}
	dec := codec.NewDecoder(field, rec)
	if err := dec.Reconstruct(rows); err != nil {
		return err
	}

	for i := 0; i < n; i++ {
		for j := 0; j < length; j++ {
			if rows[i][j] != original[i][j] {
				return fmt.Errorf("round trip mismatch at row %d offset %d: got %d want %d", i, j, rows[i][j], original[i][j])
			}
		}
	}
	return nil
}
