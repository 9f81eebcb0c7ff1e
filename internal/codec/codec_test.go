package codec

import (
	"bytes"
	"testing"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/matrix"
)

func buildRows(numData, numParity, length int, fill func(row, i int) byte) [][]byte {
	rows := make([][]byte, numData+numParity)
	for r := range rows {
		rows[r] = make([]byte, length)
		if r < numData {
			for i := 0; i < length; i++ {
				rows[r][i] = fill(r, i)
			}
		}
	}
	return rows
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	f := gf.New()
	numData, numParity, length := 5, 3, 777
	g, err := matrix.Build(f, numData, numParity)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder(f, g)
	rows := buildRows(numData, numParity, length, func(row, i int) byte {
		return byte(i * (row ^ i))
	})
	if err := enc.Parity(rows); err != nil {
		t.Fatal(err)
	}

	original := make([][]byte, numData)
	for i := range original {
		original[i] = append([]byte(nil), rows[i]...)
	}

	// fail rows 0, 2, and parity row 6 (8 rows total, 5 data + 3 parity)
	for _, idx := range []int{0, 2, 6} {
		g.Fail(idx)
		rows[idx] = nil
	}
	rec, err := matrix.Derive(f, g)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(f, rec)
	if err := dec.Reconstruct(rows); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < numData; i++ {
		if !bytes.Equal(rows[i], original[i]) {
			t.Fatalf("row %d mismatch after reconstruction", i)
		}
	}
}

func TestEncodeDecodeVectorRoundTrip(t *testing.T) {
	f := gf.New()
	numData, numParity := 3, 2
	g, err := matrix.Build(f, numData, numParity)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder(f, g)
	vec := []byte{41, 42, 43, 0, 0}
	original := append([]byte(nil), vec...)
	if err := enc.ParityVector(vec); err != nil {
		t.Fatal(err)
	}

	g.Fail(0)
	g.Fail(1)
	vec[0] = 0
	vec[1] = 0
	rec, err := matrix.Derive(f, g)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(f, rec)
	if err := dec.ReconstructVector(vec); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < numData; i++ {
		if vec[i] != original[i] {
			t.Fatalf("vec[%d]=%d want %d", i, vec[i], original[i])
		}
	}
}

func TestEncodeLargeStripeParallelPath(t *testing.T) {
	f := gf.New()
	numData, numParity, length := 25, 25, 64*1024
	g, err := matrix.Build(f, numData, numParity)
	if err != nil {
		t.Fatal(err)
	}
	enc := NewEncoder(f, g)
	rows := buildRows(numData, numParity, length, func(row, i int) byte {
		return byte(i * (row ^ i))
	})
	if err := enc.Parity(rows); err != nil {
		t.Fatal(err)
	}
	original := make([][]byte, numData)
	for i := range original {
		original[i] = append([]byte(nil), rows[i]...)
	}

	failed := []int{1, 2, 3, 4, 5, 6, 7, 9}
	for _, idx := range failed {
		g.Fail(idx)
		rows[idx] = nil
	}
	rec, err := matrix.Derive(f, g)
	if err != nil {
		t.Fatal(err)
	}
	dec := NewDecoder(f, rec)
	if err := dec.Reconstruct(rows); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < numData; i++ {
		if !bytes.Equal(rows[i], original[i]) {
			t.Fatalf("row %d mismatch after large reconstruction", i)
		}
	}
}
