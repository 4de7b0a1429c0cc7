package pam

import (
	"fmt"
	"io"

	"github.com/andrew-torda/arnclust/pkg/seqio"
)

// WriteReport renders a clustering Result as a human-readable report:
// total cost, cluster count, then per-cluster medoid and membership
// listing. Grounded on original_source/ARN/sequence.cpp's
// export_clustering_results.
func WriteReport(w io.Writer, seqs []seqio.Sequence, res Result) error {
	k := len(res.Medoids)
	if _, err := fmt.Fprintf(w, "=== PAM clustering result ===\ntotal cost: %d\nclusters: %d\n\n", res.Cost, k); err != nil {
		return err
	}

	counts := make([]int, k)
	for _, m := range res.Membership {
		if m >= 0 && m < k {
			counts[m]++
		}
	}

	for m := 0; m < k; m++ {
		if _, err := fmt.Fprintf(w, "--- cluster %d ---\nmedoid: %s\nsize: %d\nmembers:\n", m, seqs[res.Medoids[m]].ID, counts[m]); err != nil {
			return err
		}
		for i, mu := range res.Membership {
			if mu == m {
				if _, err := fmt.Fprintf(w, "  - %s\n", seqs[i].ID); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}
