package gf

import "testing"

func TestCommutative(t *testing.T) {
	f := New()
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			if got, want := f.Mult(byte(a), byte(b)), f.Mult(byte(b), byte(a)); got != want {
				t.Fatalf("mult(%d,%d)=%d want %d", a, b, got, want)
			}
		}
	}
}

func TestAssociative(t *testing.T) {
	f := New()
	for a := 0; a < 256; a += 7 {
		for b := 0; b < 256; b += 11 {
			for c := 0; c < 256; c += 13 {
				left := f.Mult(byte(a), f.Mult(byte(b), byte(c)))
				right := f.Mult(f.Mult(byte(a), byte(b)), byte(c))
				if left != right {
					t.Fatalf("mult assoc mismatch a=%d b=%d c=%d: %d vs %d", a, b, c, left, right)
				}
			}
		}
	}
}

func TestDistributive(t *testing.T) {
	f := New()
	for a := 0; a < 256; a++ {
		for b := 0; b < 256; b++ {
			for c := 0; c < 256; c++ {
				left := f.Mult(byte(a), byte(b)^byte(c))
				right := f.Mult(byte(a), byte(b)) ^ f.Mult(byte(a), byte(c))
				if left != right {
					t.Fatalf("distributive mismatch a=%d b=%d c=%d", a, b, c)
				}
			}
		}
	}
}

func TestDivInverse(t *testing.T) {
	f := New()
	for a := 0; a < 256; a++ {
		for b := 1; b < 256; b++ {
			prod := f.Mult(byte(a), byte(b))
			got, err := f.Div(prod, byte(b))
			if err != nil {
				t.Fatalf("div(%d,%d) unexpected error: %v", prod, b, err)
			}
			if got != byte(a) {
				t.Fatalf("(%d*%d)/%d = %d want %d", a, b, b, got, a)
			}
		}
	}
}

func TestDivByZero(t *testing.T) {
	f := New()
	if _, err := f.Div(5, 0); err == nil {
		t.Fatal("expected error dividing by zero")
	}
}

func TestLogILogRoundTrip(t *testing.T) {
	f := New()
	for a := 1; a < 256; a++ {
		if got := f.ILog(int(f.Log(byte(a)))); got != byte(a) {
			t.Fatalf("ilog(log(%d))=%d want %d", a, got, a)
		}
	}
	for e := 0; e < 255; e++ {
		a := f.ILog(e)
		if a == 0 {
			t.Fatalf("ilog(%d) unexpectedly zero", e)
		}
		if got := f.Log(a); int(got) != e {
			t.Fatalf("log(ilog(%d))=%d want %d", e, got, e)
		}
	}
}

func TestMultZero(t *testing.T) {
	f := New()
	for a := 0; a < 256; a++ {
		if f.Mult(byte(a), 0) != 0 || f.Mult(0, byte(a)) != 0 {
			t.Fatalf("mult with 0 operand nonzero at a=%d", a)
		}
	}
}

func TestMultRowMatchesMult(t *testing.T) {
	f := New()
	for c := 0; c < 256; c++ {
		row := f.MultRow(byte(c))
		for in := 0; in < 256; in++ {
			if row[in] != f.Mult(byte(c), byte(in)) {
				t.Fatalf("MultRow(%d)[%d]=%d want %d", c, in, row[in], f.Mult(byte(c), byte(in)))
			}
		}
	}
}
