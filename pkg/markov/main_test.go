package markov

import (
	"context"
	"go/build"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// testSeed is the fixed seed used by deterministic tests.
const testSeed = 20

// setupTestModel creates a seeded model and trains it on corpus.
func setupTestModel(t *testing.T, windowLength int, corpus string) (context.Context, *Model) {
	t.Helper()
	m, err := NewSeeded(windowLength, testSeed)
	if err != nil {
		t.Fatalf("NewSeeded() error = %v", err)
	}
	ctx := context.Background()
	if err := m.TrainString(ctx, corpus); err != nil {
		t.Fatalf("setup: TrainString() failed: %v", err)
	}
	return ctx, m
}

// fixedSource replays a list of draws, repeating the last one once exhausted.
type fixedSource struct {
	draws []float64
	next  int
}

func (s *fixedSource) Float64() float64 {
	v := s.draws[s.next]
	if s.next < len(s.draws)-1 {
		s.next++
	}
	return v
}

// checkTableInvariants verifies the probability invariants of every window.
func checkTableInvariants(t *testing.T, table *FrequencyTable) {
	t.Helper()
	for _, window := range table.Windows() {
		list, ok := table.Lookup(window)
		if !ok {
			t.Fatalf("window %q listed but not found", window)
		}
		var sum, prev float64
		for _, e := range list.Entries() {
			if e.Count <= 0 {
				t.Errorf("window %q: char %q has non-positive count %d", window, e.Char, e.Count)
			}
			if e.Cumulative < prev {
				t.Errorf("window %q: cumulative probability decreased at %q (%v < %v)", window, e.Char, e.Cumulative, prev)
			}
			sum += e.Probability
			prev = e.Cumulative
		}
		if math.Abs(sum-1.0) > 1e-9 {
			t.Errorf("window %q: probabilities sum to %v, want 1.0", window, sum)
		}
		if math.Abs(prev-1.0) > 1e-9 {
			t.Errorf("window %q: final cumulative probability is %v, want 1.0", window, prev)
		}
	}
}

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = strings.Repeat("this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. ", 64)
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
