// 2025

/*

Seqgen writes synthetic FASTA test data: num_seqs records drawn from
num_families mutated templates, grounded on
original_source/ARN/sequence.cpp's generate_test_sequences.

Usage:

	seqgen [options] num_seqs length num_families > out.fasta

Flags:

	-seed n
		random seed (default 12345)

*/
package main
