package sequence

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"

	"github.com/xelth-com/docketgo/internal/store/memory"
)

func TestJobNumber(t *testing.T) {
	cases := map[int64]string{
		1:     "JOB-0001",
		42:    "JOB-0042",
		9999:  "JOB-9999",
		10000: "JOB-10000",
	}
	for seq, want := range cases {
		if got := JobNumber(seq); got != want {
			t.Errorf("JobNumber(%d) = %s, want %s", seq, got, want)
		}
	}
}

func TestNextJobNumberIsMonotonic(t *testing.T) {
	g := NewGenerator(memory.New())

	first, err := g.NextJobNumber(context.Background())
	if err != nil {
		t.Fatalf("NextJobNumber failed: %v", err)
	}
	second, _ := g.NextJobNumber(context.Background())

	if first != "JOB-0001" || second != "JOB-0002" {
		t.Errorf("Unexpected numbers: %s, %s", first, second)
	}
}

func TestNextConcurrentDistinct(t *testing.T) {
	g := NewGenerator(memory.New())
	const n = 100

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = make(map[int64]int)
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := g.Next(context.Background(), JobCounter)
			if err != nil {
				t.Errorf("Next failed: %v", err)
				return
			}
			mu.Lock()
			seen[seq]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(seen) != n {
		t.Fatalf("Expected %d distinct values, got %d", n, len(seen))
	}
	for i := int64(1); i <= n; i++ {
		if seen[i] != 1 {
			t.Errorf("Value %d issued %d times", i, seen[i])
		}
	}
}

type failingSequencer struct{}

func (failingSequencer) NextSequence(context.Context, string) (int64, error) {
	return 0, errors.New("connection refused")
}

func TestNextPropagatesStoreFailure(t *testing.T) {
	g := NewGenerator(failingSequencer{})
	if _, err := g.NextJobNumber(context.Background()); err == nil {
		t.Fatal("Expected error from failing store")
	}
}
