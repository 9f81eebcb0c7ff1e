package matrix

import (
	"testing"

	"github.com/gfmtools/gfm/internal/gf"
)

func TestBuildIdentityTop(t *testing.T) {
	f := gf.New()
	for _, nm := range [][2]int{{1, 1}, {3, 2}, {10, 4}, {25, 25}, {249, 1}, {1, 249}} {
		g, err := Build(f, nm[0], nm[1])
		if err != nil {
			t.Fatalf("Build(%d,%d): %v", nm[0], nm[1], err)
		}
		for r := 0; r < g.NumData(); r++ {
			for c := 0; c < g.NumData(); c++ {
				want := byte(0)
				if r == c {
					want = 1
				}
				if g.Row(r)[c] != want {
					t.Fatalf("Build(%d,%d): row %d col %d = %d want %d", nm[0], nm[1], r, c, g.Row(r)[c], want)
				}
			}
		}
		for r := g.NumData(); r < g.Rows(); r++ {
			for c := 0; c < g.NumData(); c++ {
				if g.Row(r)[c] == 0 {
					t.Fatalf("Build(%d,%d): parity row %d has zero at col %d", nm[0], nm[1], r, c)
				}
			}
		}
	}
}

func TestBuildRejectsOutOfRange(t *testing.T) {
	f := gf.New()
	cases := [][2]int{{0, 1}, {1, 0}, {250, 1}, {1, 250}, {200, 200}}
	for _, c := range cases {
		if _, err := Build(f, c[0], c[1]); err == nil {
			t.Fatalf("Build(%d,%d) expected error", c[0], c[1])
		}
	}
}

func TestFailAndAlive(t *testing.T) {
	f := gf.New()
	g, err := Build(f, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !g.Alive(0) {
		t.Fatal("row 0 should start alive")
	}
	g.Fail(0)
	if g.Alive(0) {
		t.Fatal("row 0 should be failed")
	}
}
