// 2025

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/andrew-torda/arnclust/pkg/matio"
	"github.com/andrew-torda/arnclust/pkg/pam"
	"github.com/andrew-torda/arnclust/pkg/rcommon"
	"github.com/andrew-torda/arnclust/pkg/seqio"
)

func usage(f *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(f.Output(), "usage: pam [options] matrix.txt k [seed] [threads]")
		f.PrintDefaults()
	}
}

func main() {
	f := flag.NewFlagSet("pam", flag.ExitOnError)
	seed := f.Int64("seed", 12345, "PAM random seed (equivalent to the optional positional seed)")
	workers := f.Int("j", 0, "worker goroutines (equivalent to the optional positional threads; unused by sequential PAM)")
	reportPath := f.String("report", "", "write the cluster report here (default stdout)")
	f.Usage = usage(f)
	if err := f.Parse(os.Args[1:]); err != nil {
		os.Exit(rcommon.ExitUsageError)
	}

	if f.NArg() < 2 {
		f.Usage()
		os.Exit(rcommon.ExitUsageError)
	}

	d, err := matio.ReadMatrixFile(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, "pam:", err)
		os.Exit(rcommon.ExitFailure)
	}
	k, err := strconv.Atoi(f.Arg(1))
	if err != nil || k < 1 {
		fmt.Fprintln(os.Stderr, "pam: k must be >= 1")
		os.Exit(rcommon.ExitUsageError)
	}
	if f.NArg() > 2 {
		v, err := strconv.ParseInt(f.Arg(2), 10, 64)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pam: seed must be an integer")
			os.Exit(rcommon.ExitUsageError)
		}
		*seed = v
	}
	if f.NArg() > 3 {
		v, err := strconv.Atoi(f.Arg(3))
		if err != nil {
			fmt.Fprintln(os.Stderr, "pam: threads must be an integer")
			os.Exit(rcommon.ExitUsageError)
		}
		*workers = v
	}
	_ = workers // unused by sequential PAM; accepted for CLI-surface parity

	res, err := pam.Run(d.N(), d, k, *seed)
	if err != nil {
		fmt.Fprintln(os.Stderr, "pam:", err)
		os.Exit(rcommon.ExitFailure)
	}

	seqs := make([]seqio.Sequence, d.N())
	for i := range seqs {
		seqs[i] = seqio.Sequence{ID: fmt.Sprintf("seq%d", i)}
	}

	out := os.Stdout
	if *reportPath != "" {
		fp, err := os.Create(*reportPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "pam:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer fp.Close()
		out = fp
	}
	if err := pam.WriteReport(out, seqs, res); err != nil {
		fmt.Fprintln(os.Stderr, "pam:", err)
		os.Exit(rcommon.ExitFailure)
	}

	os.Exit(rcommon.ExitSuccess)
}
