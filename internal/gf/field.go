// Package gf implements arithmetic over GF(2^8) with primitive polynomial
// x^8+x^4+x^3+x^2+1 (0x1d), the field the erasure coding matrix and codec
// operate over.
//
// A single 64KiB multiplication table dominates the hot loop in encode and
// decode, so Field precomputes log, antilog and full multiplication tables
// once at construction and treats them as read-only afterwards.
package gf

import "github.com/gfmtools/gfm/internal/gfmerr"

const (
	primPoly = 0x1d
	order    = 256

	// the antilog table is stored over a window wide enough that
	// E[log(a)-log(b)] can be indexed directly for any a,b in [1,255],
	// without a conditional add of 255 on the hot division path.
	windowLo = -255
	windowHi = 509
)

// Field holds the precomputed GF(2^8) tables. The zero value is not usable;
// construct with New.
type Field struct {
	log  [order]byte
	ilog [windowHi - windowLo + 1]byte
	mul  [order * order]byte
}

// New builds the field tables: log/antilog via the generator g=2, then the
// full 256x256 multiplication table from them.
func New() *Field {
	f := &Field{}

	b := byte(1)
	for l := 0; l < order-1; l++ {
		f.log[b] = byte(l)
		f.setIlog(l, b)
		if b&0x80 != 0 {
			b = (b << 1) ^ primPoly
		} else {
			b = b << 1
		}
	}

	// periodic extension: E[e] = E[e mod 255] across the whole window.
	for e := 0; e < order-1; e++ {
		v := f.ilogAt(e)
		for s := e - (order - 1); s >= windowLo; s -= order - 1 {
			f.setIlog(s, v)
		}
		for s := e + (order - 1); s <= windowHi; s += order - 1 {
			f.setIlog(s, v)
		}
	}

	for a := 1; a < order; a++ {
		for bb := 1; bb < order; bb++ {
			f.mul[a*order+bb] = f.ilogAt(int(f.log[a]) + int(f.log[bb]))
		}
	}
	// row/column 0 are already zero from the zero value.

	return f
}

func (f *Field) setIlog(e int, v byte) { f.ilog[e-windowLo] = v }
func (f *Field) ilogAt(e int) byte     { return f.ilog[e-windowLo] }

// Mult returns a*b in GF(2^8). Total and constant-time: every input pair
// has a table entry, including zero operands.
func (f *Field) Mult(a, b byte) byte {
	return f.mul[int(a)*order+int(b)]
}

// Div returns a/b in GF(2^8). Fails with ErrInvalidArgument when b is zero;
// returns 0 when a is zero.
func (f *Field) Div(a, b byte) (byte, error) {
	if b == 0 {
		return 0, gfmerr.ErrInvalidArgument
	}
	if a == 0 {
		return 0, nil
	}
	return f.ilogAt(int(f.log[a]) - int(f.log[b])), nil
}

// Log returns the discrete log of a base the field's generator.
// Precondition: a != 0; log(0) is undefined and must never be evaluated.
func (f *Field) Log(a byte) byte {
	return f.log[a]
}

// ILog returns g^(e mod 255), accepting any exponent representative
// (positive, negative, or out of the canonical [0,254] range).
func (f *Field) ILog(e int) byte {
	m := e % (order - 1)
	if m < 0 {
		m += order - 1
	}
	return f.ilogAt(m)
}

// MultRow returns the 256-entry row of the multiplication table for a
// fixed scalar c, letting callers do out[i] = row[in[i]] without repeated
// two-table chasing. Used by the codec's scalar-multiply-then-XOR inner
// loop.
func (f *Field) MultRow(c byte) []byte {
	return f.mul[int(c)*order : int(c)*order+order]
}
