// Package diag writes the DMP environment variable's diagnostic dump: the
// constructed Field's tables and the generator matrix D, to files beside
// the shard stub. It is consulted by nothing else in the program - purely
// a debugging aid.
package diag

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"

	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/matrix"
)

// DumpField writes f's log, antilog and multiplication tables to path in a
// plain tab-separated form, one table per section.
func DumpField(path string, f *gf.Field) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening field dump %s", path)
	}
	defer file.Close()

	var b strings.Builder
	b.WriteString("# log\n")
	for a := 1; a < 256; a++ {
		fmt.Fprintf(&b, "%d\t%d\n", a, f.Log(byte(a)))
	}
	b.WriteString("# ilog\n")
	for e := 0; e < 255; e++ {
		fmt.Fprintf(&b, "%d\t%d\n", e, f.ILog(e))
	}
	b.WriteString("# mult\n")
	for a := 0; a < 256; a++ {
		row := f.MultRow(byte(a))
		for c, v := range row {
			if c > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%d", v)
		}
		b.WriteByte('\n')
	}

	_, err = file.WriteString(b.String())
	return errors.Wrapf(err, "writing field dump %s", path)
}

// DumpMatrix writes the generator matrix D as a tab-separated grid, one
// row per line, annotated with each row's liveness flag.
func DumpMatrix(path string, g *matrix.Generator) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return errors.Wrapf(err, "opening matrix dump %s", path)
	}
	defer file.Close()

	var b strings.Builder
	fmt.Fprintf(&b, "# D is %dx%d (N=%d, M=%d)\n", g.Rows(), g.NumData(), g.NumData(), g.NumParity())
	for r := 0; r < g.Rows(); r++ {
		state := "alive"
		if !g.Alive(r) {
			state = "failed"
		}
		fmt.Fprintf(&b, "%d\t%s", r, state)
		for _, v := range g.Row(r) {
			fmt.Fprintf(&b, "\t%d", v)
		}
		b.WriteByte('\n')
	}

	_, err = file.WriteString(b.String())
	return errors.Wrapf(err, "writing matrix dump %s", path)
}
