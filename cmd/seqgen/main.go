// 2025

package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/andrew-torda/arnclust/pkg/rcommon"
	"github.com/andrew-torda/arnclust/pkg/seqgen"
)

func usage(f *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(f.Output(), "usage: seqgen [options] num_seqs length num_families")
		f.PrintDefaults()
	}
}

func main() {
	f := flag.NewFlagSet("seqgen", flag.ExitOnError)
	seed := f.Int64("seed", 12345, "random seed")
	f.Usage = usage(f)
	if err := f.Parse(os.Args[1:]); err != nil {
		os.Exit(rcommon.ExitUsageError)
	}

	if f.NArg() < 3 {
		f.Usage()
		os.Exit(rcommon.ExitUsageError)
	}

	numSeqs, err1 := strconv.Atoi(f.Arg(0))
	length, err2 := strconv.Atoi(f.Arg(1))
	numFamilies, err3 := strconv.Atoi(f.Arg(2))
	if err1 != nil || err2 != nil || err3 != nil || numSeqs < 1 || length < 1 || numFamilies < 1 {
		fmt.Fprintln(os.Stderr, "seqgen: num_seqs, length and num_families must all be positive integers")
		os.Exit(rcommon.ExitUsageError)
	}

	bw := bufio.NewWriter(os.Stdout)
	err := seqgen.Run(seqgen.Args{
		Seed:        *seed,
		NumSeqs:     numSeqs,
		Length:      length,
		NumFamilies: numFamilies,
		Wrtr:        bw,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "seqgen:", err)
		os.Exit(rcommon.ExitFailure)
	}
	if err := bw.Flush(); err != nil {
		fmt.Fprintln(os.Stderr, "seqgen:", err)
		os.Exit(rcommon.ExitFailure)
	}

	os.Exit(rcommon.ExitSuccess)
}
