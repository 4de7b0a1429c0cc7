// 2025

/*

Pam runs k-medoids clustering against a precomputed distance matrix,
without recomputing it from sequences. It reads the matio plain-text
matrix format (see spec §6's "Data Model and External Interfaces"):
the graph/DOT format that pipeline produces is an export format only
and is never read back in, so this driver accepts a matrix file, not a
DOT file.

Usage:

	pam [options] matrix.txt k [seed] [threads]

seed and threads are optional positional arguments; -seed/-j are the
flag-equivalent way to set them and take effect when the positional
form is omitted. threads is accepted for CLI-surface parity but unused:
PAM's swap search here is a sequential brute-force scan with no
parallel assignment variant to bound.

Flags:

	-seed n
		PAM random seed (default 12345)
	-j n
		worker goroutines (default: GOMAXPROCS; unused by sequential PAM,
		kept for symmetry with the other drivers and future parallel
		assignment variants)
	-report file
		write the cluster report here (default stdout)

*/
package main
