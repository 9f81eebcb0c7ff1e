package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"

	"github.com/gfmtools/gfm/internal/diag"
	"github.com/gfmtools/gfm/internal/engine"
	"github.com/gfmtools/gfm/internal/gf"
	"github.com/gfmtools/gfm/internal/gfmerr"
	"github.com/gfmtools/gfm/internal/matrix"
	"github.com/gfmtools/gfm/internal/selftest"
)

// VERSION is injected by buildflags.
var VERSION = "SELFBUILD"

func main() {
	if VERSION == "SELFBUILD" {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	myApp := cli.NewApp()
	myApp.Name = "gfm"
	myApp.Usage = "GF(2^8) erasure-coded file splitter/joiner"
	myApp.Version = VERSION
	myApp.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:   "bit",
			Usage:  "run built-in self tests before the requested operation",
			EnvVar: "BIT",
		},
		cli.BoolFlag{
			Name:   "dmp",
			Usage:  "dump field and generator-matrix state to <stub>.gfa/<stub>.gfm",
			EnvVar: "DMP",
		},
	}
	myApp.ArgsUsage = "STUB | STUB N M"
	myApp.Action = func(c *cli.Context) error {
		if c.Bool("bit") {
			fmt.Fprintln(os.Stderr, "BIT ...")
			if err := selftest.Run(); err != nil {
				fatal(errors.Wrap(err, "BIT"))
			}
			fmt.Fprintln(os.Stderr, "BIT OK!")
		}

		args := c.Args()
		switch len(args) {
		case 1:
			stub := args.Get(0)
			if c.Bool("dmp") {
				dumpDecode(stub)
			}
			if err := engine.Decode(stub, os.Stdout); err != nil {
				fatal(err)
			}
		case 3:
			stub := args.Get(0)
			numData, err := strconv.Atoi(args.Get(1))
			if err != nil {
				fatal(errors.Wrapf(gfmerr.ErrInvalidArgument, "N must be an integer: %v", err))
			}
			numParity, err := strconv.Atoi(args.Get(2))
			if err != nil {
				fatal(errors.Wrapf(gfmerr.ErrInvalidArgument, "M must be an integer: %v", err))
			}
			if c.Bool("dmp") {
				dumpEncode(stub, numData, numParity)
			}
			if err := engine.Encode(stub, numData, numParity, os.Stdin); err != nil {
				fatal(err)
			}
		default:
			c.App.Writer = os.Stderr
			cli.ShowAppHelp(c)
			os.Exit(1)
		}
		return nil
	}

	if err := myApp.Run(os.Args); err != nil {
		fatal(err)
	}
}

// dumpEncode and dumpDecode are diagnostic-only: failures are reported as
// warnings, never abort the requested operation.
func dumpEncode(stub string, numData, numParity int) {
	field := gf.New()
	if err := diag.DumpField(stub+".gfa", field); err != nil {
		color.Red("DMP: %v", err)
		return
	}
	gen, err := matrix.Build(field, numData, numParity)
	if err != nil {
		color.Red("DMP: %v", err)
		return
	}
	if err := diag.DumpMatrix(stub+".gfm", gen); err != nil {
		color.Red("DMP: %v", err)
	}
}

func dumpDecode(stub string) {
	field := gf.New()
	if err := diag.DumpField(stub+".gfa", field); err != nil {
		color.Red("DMP: %v", err)
	}
}

// fatal logs the full pkg/errors stack trace and exits non-zero.
func fatal(err error) {
	log.Printf("%+v\n", err)
	os.Exit(1)
}
