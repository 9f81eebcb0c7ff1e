package matrix

import (
	"testing"

	"github.com/gfmtools/gfm/internal/gf"
)

func TestDeriveNoFailures(t *testing.T) {
	f := gf.New()
	g, err := Build(f, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := Derive(f, g)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < g.NumData(); i++ {
		if rec.Source(i) != i {
			t.Fatalf("row %d source = %d, want %d", i, rec.Source(i), i)
		}
		for j := 0; j < g.NumData(); j++ {
			want := byte(0)
			if i == j {
				want = 1
			}
			if rec.Row(i)[j] != want {
				t.Fatalf("row %d not identity at col %d: %d", i, j, rec.Row(i)[j])
			}
		}
	}
}

func TestDeriveWithFailures(t *testing.T) {
	f := gf.New()
	g, err := Build(f, 5, 4)
	if err != nil {
		t.Fatal(err)
	}
	g.Fail(1)
	g.Fail(3)
	rec, err := Derive(f, g)
	if err != nil {
		t.Fatal(err)
	}
	if rec.Source(1) == 1 {
		t.Fatal("row 1 failed, source should differ")
	}
	if rec.Source(3) == 3 {
		t.Fatal("row 3 failed, source should differ")
	}
	// highest-indexed surviving rows are picked first, and distinctly.
	if rec.Source(1) == rec.Source(3) {
		t.Fatal("replacement rows must be distinct")
	}
	if rec.Source(1) != 8 {
		t.Fatalf("row 1 replacement = %d, want highest surviving row 8", rec.Source(1))
	}
	if rec.Source(3) != 7 {
		t.Fatalf("row 3 replacement = %d, want next highest surviving row 7", rec.Source(3))
	}
}

func TestDeriveTooFewSurvivors(t *testing.T) {
	f := gf.New()
	g, err := Build(f, 4, 2)
	if err != nil {
		t.Fatal(err)
	}
	g.Fail(0)
	g.Fail(1)
	g.Fail(2)
	if _, err := Derive(f, g); err == nil {
		t.Fatal("expected error with too few survivors")
	}
}
