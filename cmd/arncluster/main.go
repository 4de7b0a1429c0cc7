// 2025

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"strconv"

	"github.com/andrew-torda/arnclust/pkg/comm"
	"github.com/andrew-torda/arnclust/pkg/distance"
	"github.com/andrew-torda/arnclust/pkg/distbuild"
	"github.com/andrew-torda/arnclust/pkg/dmatrix"
	"github.com/andrew-torda/arnclust/pkg/floyd"
	"github.com/andrew-torda/arnclust/pkg/matio"
	"github.com/andrew-torda/arnclust/pkg/pam"
	"github.com/andrew-torda/arnclust/pkg/rcommon"
	"github.com/andrew-torda/arnclust/pkg/seqio"
)

func usage(f *flag.FlagSet) func() {
	return func() {
		fmt.Fprintln(f.Output(), "usage: arncluster [options] fasta epsilon k_clusters [output.dot]")
		f.PrintDefaults()
	}
}

func main() {
	f := flag.NewFlagSet("arncluster", flag.ExitOnError)
	distKind := f.String("d", "edit", "distance kernel: hamming, edit, kmer, needleman")
	kmerK := f.Int("k", 4, "k for the kmer kernel")
	workers := f.Int("j", 0, "worker goroutines (0 = GOMAXPROCS)")
	procs := f.Int("p", 1, "number of simulated MPI ranks (must be a perfect square if > 1)")
	seed := f.Int64("seed", 12345, "PAM random seed")
	reportPath := f.String("report", "", "write the PAM report here (default stdout)")
	cpuprof := f.String("c", "", "write CPU profile to file")
	memprof := f.String("m", "", "write heap profile to file")
	traceprof := f.String("t", "", "write execution trace to file")
	f.Usage = usage(f)
	if err := f.Parse(os.Args[1:]); err != nil {
		os.Exit(rcommon.ExitUsageError)
	}

	if f.NArg() < 3 {
		f.Usage()
		os.Exit(rcommon.ExitUsageError)
	}

	fastaPath := f.Arg(0)
	eps, err := strconv.Atoi(f.Arg(1))
	if err != nil || eps <= 0 {
		fmt.Fprintln(os.Stderr, "arncluster: epsilon must be a strictly positive integer")
		os.Exit(rcommon.ExitUsageError)
	}
	k, err := strconv.Atoi(f.Arg(2))
	if err != nil || k < 1 {
		fmt.Fprintln(os.Stderr, "arncluster: k_clusters must be >= 1")
		os.Exit(rcommon.ExitUsageError)
	}
	outPath := "arn_graph.dot"
	if f.NArg() > 3 {
		outPath = f.Arg(3)
	}

	if *cpuprof != "" {
		fp, err := os.Create(*cpuprof)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer fp.Close()
		if err := pprof.StartCPUProfile(fp); err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer pprof.StopCPUProfile()
	}
	if *traceprof != "" {
		tp, err := os.Create(*traceprof)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer tp.Close()
		if err := trace.Start(tp); err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer trace.Stop()
	}

	kind, err := distance.ParseKind(*distKind)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arncluster:", err)
		os.Exit(rcommon.ExitFailure)
	}

	seqs, err := seqio.ReadFile(fastaPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "arncluster:", err)
		os.Exit(rcommon.ExitFailure)
	}
	params := distance.Params{KmerK: *kmerK, Needleman: distance.DefaultNeedlemanParams}

	var dClosed *dmatrix.Matrix
	var result pam.Result

	if *procs <= 1 {
		d, err := distbuild.Build(seqs, kind, params, *workers)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		stats := distbuild.ComputeStats(d)
		fmt.Fprintf(os.Stderr, "arncluster: %d pairwise distances, min=%d max=%d mean=%.2f median=%d q1=%d q3=%d\n",
			stats.Count, stats.Min, stats.Max, stats.Mean, stats.Median, stats.Q1, stats.Q3)
		filtered := d.Filter(eps)
		floyd.Sequential(filtered, *workers)
		dClosed = filtered

		result, err = pam.Run(dClosed.N(), dClosed, k, *seed)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
	} else {
		dClosed, result, err = runDistributed(seqs, kind, params, eps, k, *seed, *procs, *workers)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
	}

	ids := make([]string, len(seqs))
	for i, s := range seqs {
		ids[i] = s.ID
	}
	if err := matio.WriteDOTFile(outPath, ids, dClosed, eps); err != nil {
		fmt.Fprintln(os.Stderr, "arncluster:", err)
		os.Exit(rcommon.ExitFailure)
	}

	var reportOut = os.Stdout
	if *reportPath != "" {
		fp, err := os.Create(*reportPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer fp.Close()
		reportOut = fp
	}
	if err := pam.WriteReport(reportOut, seqs, result); err != nil {
		fmt.Fprintln(os.Stderr, "arncluster:", err)
		os.Exit(rcommon.ExitFailure)
	}

	if *memprof != "" {
		runtime.GC()
		fp, err := os.Create(*memprof)
		if err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
		defer fp.Close()
		if err := pprof.WriteHeapProfile(fp); err != nil {
			fmt.Fprintln(os.Stderr, "arncluster:", err)
			os.Exit(rcommon.ExitFailure)
		}
	}

	os.Exit(rcommon.ExitSuccess)
}

// runDistributed runs the build/filter/Floyd/PAM pipeline across p
// simulated ranks sharing one comm.Group. p must be a perfect square
// (spec §6's process-topology requirement for Floyd). distbuild.Distributed
// leaves D on root only; root filters it, slices it into tiles and
// scatters them for Floyd's block grid. pam.Distributed expects every
// rank to hold the rows it is responsible for, so the closed D is
// reassembled on root after Floyd and broadcast to every rank.
func runDistributed(seqs []seqio.Sequence, kind distance.Kind, params distance.Params, eps, k int, seed int64, p, workers int) (*dmatrix.Matrix, pam.Result, error) {
	pSqrt, ok := rcommon.IsSquare(p)
	if !ok {
		return nil, pam.Result{}, fmt.Errorf("arncluster: %d ranks is not a perfect square", p)
	}
	n := len(seqs)
	b, err := dmatrix.BlockSize(n, pSqrt)
	if err != nil {
		return nil, pam.Result{}, err
	}

	var dClosed *dmatrix.Matrix
	var result pam.Result

	runErr := comm.Run(context.Background(), p, func(ctx context.Context, c comm.Communicator) error {
		d, err := distbuild.Distributed(ctx, c, seqs, kind, params, workers)
		if err != nil {
			return err
		}

		var filteredFlat []int
		if c.Rank() == 0 {
			filteredFlat = d.Filter(eps).Raw()
		}
		bcastD, err := c.Bcast(ctx, filteredFlat, 0)
		if err != nil {
			return err
		}
		full := dmatrix.FromFlat(n, append([]int(nil), bcastD...))

		var scatterBuf []int
		counts := make([]int, p)
		for r := 0; r < p; r++ {
			counts[r] = b * b
		}
		if c.Rank() == 0 {
			scatterBuf = make([]int, 0, p*b*b)
			for r := 0; r < p; r++ {
				bi, bj := dmatrix.GridCoord(r, pSqrt)
				scatterBuf = append(scatterBuf, full.Tile(bi, bj, b)...)
			}
		}
		local, err := c.Scatter(ctx, scatterBuf, counts, 0)
		if err != nil {
			return err
		}

		if err := floyd.Distributed(ctx, c, local, n, workers); err != nil {
			return err
		}

		gathered, err := c.Gather(ctx, local, counts, 0)
		if err != nil {
			return err
		}

		var closedFlat []int
		if c.Rank() == 0 {
			closed := dmatrix.New(n)
			for r := 0; r < p; r++ {
				bi, bj := dmatrix.GridCoord(r, pSqrt)
				closed.SetTile(bi, bj, b, gathered[r*b*b:(r+1)*b*b])
			}
			dClosed = closed
			closedFlat = closed.Raw()
		}
		bcastClosed, err := c.Bcast(ctx, closedFlat, 0)
		if err != nil {
			return err
		}
		closedLocal := dmatrix.FromFlat(n, append([]int(nil), bcastClosed...))

		res, err := pam.Distributed(ctx, c, n, closedLocal, k, seed)
		if err != nil {
			return err
		}
		if c.Rank() == 0 {
			result = res
		}
		return nil
	})
	if runErr != nil {
		return nil, pam.Result{}, runErr
	}
	return dClosed, result, nil
}
