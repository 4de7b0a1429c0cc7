// 2025

package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/andrew-torda/arnclust/pkg/distance"
	"github.com/andrew-torda/arnclust/pkg/distbuild"
	"github.com/andrew-torda/arnclust/pkg/matio"
	"github.com/andrew-torda/arnclust/pkg/rcommon"
	"github.com/andrew-torda/arnclust/pkg/seqio"
)

func usage(f *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(f.Output(), "usage: arngraph [options] fasta epsilon [output.dot]")
		f.PrintDefaults()
	}
}

func main() {
	f := flag.NewFlagSet("arngraph", flag.ExitOnError)
	distKind := f.String("d", "edit", "distance kernel: hamming, edit, kmer, needleman")
	kmerK := f.Int("k", 4, "k for the kmer kernel")
	workers := f.Int("j", 0, "worker goroutines (0 = GOMAXPROCS)")
	f.Usage = usage(f)
	if err := f.Parse(os.Args[1:]); err != nil {
		os.Exit(rcommon.ExitUsageError)
	}

	if f.NArg() < 2 {
		f.Usage()
		os.Exit(rcommon.ExitUsageError)
	}

	fastaPath := f.Arg(0)
	eps, err := strconv.Atoi(f.Arg(1))
	if err != nil || eps <= 0 {
		fmt.Fprintln(os.Stderr, "arngraph: epsilon must be a strictly positive integer")
		os.Exit(rcommon.ExitUsageError)
	}
	outPath := "arn_graph.dot"
	if f.NArg() > 2 {
		outPath = f.Arg(2)
	}

	kind, err := distance.ParseKind(*distKind)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arngraph:", err)
		os.Exit(rcommon.ExitFailure)
	}

	seqs, err := seqio.ReadFile(fastaPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arngraph:", err)
		os.Exit(rcommon.ExitFailure)
	}

	m, err := distbuild.Build(seqs, kind, distance.Params{KmerK: *kmerK}, *workers)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arngraph:", err)
		os.Exit(rcommon.ExitFailure)
	}

	ids := make([]string, len(seqs))
	for i, s := range seqs {
		ids[i] = s.ID
	}
	if err := matio.WriteDOTFile(outPath, ids, m, eps); err != nil {
		fmt.Fprintln(os.Stderr, "arngraph:", err)
		os.Exit(rcommon.ExitFailure)
	}

	os.Exit(rcommon.ExitSuccess)
}
