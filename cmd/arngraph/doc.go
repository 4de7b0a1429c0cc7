// 2025

/*

Arngraph builds a distance matrix from a FASTA file and emits the
ε-filtered similarity graph in DOT notation.

Usage:

	arngraph [options] fasta epsilon [output.dot]

epsilon is a strictly positive integer threshold. output.dot defaults
to arn_graph.dot.

Flags:

	-d kind
		distance kernel: hamming, edit, kmer, needleman (default edit)
	-k n
		k for the kmer kernel (default 4)
	-j n
		worker goroutines for the inner parallel-for (default: GOMAXPROCS)

*/
package main
