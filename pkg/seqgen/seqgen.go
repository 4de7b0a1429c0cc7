// seqgen generates synthetic FASTA test data: n sequences drawn from
// num_families mutated templates, the supplemental feature ported from
// original_source/ARN/sequence.cpp's generate_test_sequences. The
// producer/writer split — one goroutine building sequences, one
// draining a channel to write them — is adapted from
// pkg/randseq.RandSeqMain.
package seqgen

import (
	"fmt"
	"io"
	"math/rand"
	"sync"
)

var bases = []byte("ACGT")

// Args configures a generation run.
type Args struct {
	Seed        int64
	NumSeqs     int
	Length      int
	NumFamilies int
	Wrtr        io.Writer
}

// Run writes NumSeqs FASTA records to Wrtr. Each of NumFamilies
// template sequences of length Length is generated first; every
// output record starts from its family's template and mutates each
// base independently with 10% probability, the same scheme the
// original generator uses. Record i belongs to family i%NumFamilies.
func Run(args Args) error {
	if args.NumFamilies <= 0 {
		return fmt.Errorf("seqgen: num_families must be positive, got %d", args.NumFamilies)
	}
	rng := rand.New(rand.NewSource(args.Seed))

	templates := make([][]byte, args.NumFamilies)
	for f := range templates {
		t := make([]byte, args.Length)
		for j := range t {
			t[j] = bases[rng.Intn(4)]
		}
		templates[f] = t
	}

	type record struct {
		id  string
		seq []byte
	}
	recChan := make(chan record)

	var wg sync.WaitGroup
	wg.Add(1)
	var writeErr error
	go func() {
		defer wg.Done()
		for r := range recChan {
			if _, err := fmt.Fprintf(args.Wrtr, ">%s\n", r.id); err != nil {
				writeErr = err
				continue
			}
			for off := 0; off < len(r.seq); off += 80 {
				end := off + 80
				if end > len(r.seq) {
					end = len(r.seq)
				}
				if _, err := args.Wrtr.Write(r.seq[off:end]); err != nil {
					writeErr = err
					break
				}
				if _, err := args.Wrtr.Write([]byte{'\n'}); err != nil {
					writeErr = err
					break
				}
			}
		}
	}()

	for i := 0; i < args.NumSeqs; i++ {
		family := i % args.NumFamilies
		seq := make([]byte, args.Length)
		copy(seq, templates[family])
		for j := range seq {
			if rng.Intn(100) < 10 {
				seq[j] = bases[rng.Intn(4)]
			}
		}
		recChan <- record{id: fmt.Sprintf("seq%d_family%d", i, family), seq: seq}
	}
	close(recChan)
	wg.Wait()
	return writeErr
}
