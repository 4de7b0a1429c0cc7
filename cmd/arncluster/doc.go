// 2025

/*

Arncluster runs the full pipeline: build a distance matrix from a
FASTA file, filter it at epsilon, close it under Floyd-Warshall, and
cluster the result into k_clusters medoid groups.

Usage:

	arncluster [options] fasta epsilon k_clusters [output.dot]

output.dot defaults to arn_graph.dot; the closed, ε-filtered graph is
always written there, whether or not it was requested — this is the
driver the full pipeline runs through, so the pre-clustering graph is
worth keeping around.

Flags:

	-d kind
		distance kernel: hamming, edit, kmer, needleman (default edit)
	-k n
		k for the kmer kernel (default 4)
	-j n
		worker goroutines for the inner parallel-for (default: GOMAXPROCS)
	-p n
		number of simulated MPI ranks (default 1); must be a perfect
		square when greater than 1
	-seed n
		PAM random seed (default 12345)
	-report file
		write the PAM cluster report here (default stdout)
	-c file
		write a CPU profile to file
	-m file
		write a heap profile to file
	-t file
		write an execution trace to file

*/
package main
