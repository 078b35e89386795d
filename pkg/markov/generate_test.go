package markov

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"
)

func TestGenerate(t *testing.T) {
	ctx, m := setupTestModel(t, 3, "abcabcabcabc")

	testCases := []struct {
		name     string
		seed     string
		length   int
		expected string
	}{
		{name: "Regression fixture", seed: "abc", length: 3, expected: "abcabc"},
		{name: "Longer run wraps the cycle", seed: "abc", length: 7, expected: "abcabcabca"},
		{name: "Seed longer than window", seed: "zzzbca", length: 4, expected: "zzzbcabcab"},
		{name: "Zero length returns seed", seed: "abc", length: 0, expected: "abc"},
		{name: "Unknown trailing window", seed: "xyz", length: 5, expected: "xyz"},
		{name: "Seed shorter than window", seed: "ab", length: 5, expected: "ab"},
		{name: "Empty seed", seed: "", length: 5, expected: ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output, err := m.Generate(ctx, tc.seed, tc.length)
			if err != nil {
				t.Fatalf("got unexpected error: %v", err)
			}
			if output != tc.expected {
				t.Errorf("expected %q, got %q", tc.expected, output)
			}
		})
	}
}

func TestGenerateWindowLengthOne(t *testing.T) {
	ctx, m := setupTestModel(t, 1, "aaaa")

	output, err := m.Generate(ctx, "a", 5)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if output != "aaaaaa" {
		t.Errorf("expected %q, got %q", "aaaaaa", output)
	}
}

func TestGenerateNegativeLength(t *testing.T) {
	ctx, m := setupTestModel(t, 1, "aaaa")
	if _, err := m.Generate(ctx, "a", -1); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("expected ErrInvalidLength, got %v", err)
	}
}

func TestGenerateMidGenerationMiss(t *testing.T) {
	// "ab" -> 'c', "bc" -> 'd', and "cd" is never followed by anything.
	ctx, m := setupTestModel(t, 2, "abcd")

	output, err := m.Generate(ctx, "ab", 5)
	if !errors.Is(err, ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
	var missErr *LookupMissError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected a *LookupMissError, got %T", err)
	}
	if missErr.Window != "cd" || missErr.Generated != 2 {
		t.Errorf("got %+v, want window \"cd\" after 2 generated characters", missErr)
	}
	if output != "abcd" {
		t.Errorf("expected the partial text %q, got %q", "abcd", output)
	}

	// Stopping exactly before the unseen window is not an error.
	output, err = m.Generate(ctx, "ab", 2)
	if err != nil || output != "abcd" {
		t.Errorf("Generate(ab, 2) = %q, %v; want %q, nil", output, err, "abcd")
	}
}

func TestGenerateHugeLength(t *testing.T) {
	ctx, m := setupTestModel(t, 2, "abcd")

	output, err := m.Generate(ctx, "ab", math.MaxInt)
	var missErr *LookupMissError
	if !errors.As(err, &missErr) {
		t.Fatalf("expected a *LookupMissError, got %v", err)
	}
	if missErr.Generated != 2 || output != "abcd" {
		t.Errorf("got %q after %d characters, want %q after 2", output, missErr.Generated, "abcd")
	}
}

func TestGenerateSeededOutput(t *testing.T) {
	corpus := "she sells sea shells by the sea shore, and the shells she sells are sea shells for sure."

	testCases := []struct {
		name         string
		windowLength int
		seed         string
		length       int
		expected     string
	}{
		{name: "Window two", windowLength: 2, seed: "sh", length: 40, expected: "she sea sea shells are, are, and thells su"},
		{name: "Window three", windowLength: 3, seed: "the", length: 40, expected: "the sells shells sea shells shore, and the "},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, m := setupTestModel(t, tc.windowLength, corpus)
			output, err := m.Generate(ctx, tc.seed, tc.length)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}
			if output != tc.expected {
				t.Errorf("Generate(%q, %d) = %q, want %q", tc.seed, tc.length, output, tc.expected)
			}
		})
	}
}

func TestGenerateDeterminism(t *testing.T) {
	corpus := "she sells sea shells by the sea shore, and the shells she sells are sea shells for sure."

	_, m1 := setupTestModel(t, 2, corpus)
	_, m2 := setupTestModel(t, 2, corpus)
	ctx := context.Background()

	for i, seed := range []string{"sh", "the se", "sea", "zz"} {
		out1, err1 := m1.Generate(ctx, seed, 40)
		out2, err2 := m2.Generate(ctx, seed, 40)
		if out1 != out2 || fmt.Sprint(err1) != fmt.Sprint(err2) {
			t.Errorf("call %d: seeded models diverged: %q (%v) vs %q (%v)", i, out1, err1, out2, err2)
		}
	}
}

func TestGenerateLength(t *testing.T) {
	// Every window of this corpus is followed by something, including the last.
	corpus := "the cat sat on the mat and the rat ate the hat that the cat had. the "
	ctx, m := setupTestModel(t, 2, corpus)

	output, err := m.Generate(ctx, "th", 200)
	if errors.Is(err, ErrWindowNotFound) {
		var missErr *LookupMissError
		errors.As(err, &missErr)
		if got := len([]rune(output)) - 2; got != missErr.Generated {
			t.Errorf("partial output holds %d generated characters, error reports %d", got, missErr.Generated)
		}
		return
	}
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if got := len([]rune(output)); got != 202 {
		t.Errorf("expected 202 characters, got %d", got)
	}
}

func TestSampleNextDistribution(t *testing.T) {
	// "ab" is followed by 'c' three times and by 'd' once.
	_, m := setupTestModel(t, 2, "abcabcabcabd")

	const draws = 20000
	var cCount int
	for i := 0; i < draws; i++ {
		c, err := m.SampleNext("ab")
		if err != nil {
			t.Fatalf("SampleNext failed: %v", err)
		}
		switch c {
		case 'c':
			cCount++
		case 'd':
		default:
			t.Fatalf("SampleNext returned unexpected character %q", c)
		}
	}

	freq := float64(cCount) / draws
	if freq < 0.73 || freq > 0.77 {
		t.Errorf("empirical frequency of 'c' = %v, want 0.75 ± 0.02", freq)
	}
}

func TestSampleNextMiss(t *testing.T) {
	_, m := setupTestModel(t, 2, "abcabd")

	_, err := m.SampleNext("zz")
	if !errors.Is(err, ErrWindowNotFound) {
		t.Errorf("expected ErrWindowNotFound, got %v", err)
	}
}

func TestNewWithSource(t *testing.T) {
	// 'ab' -> c (0.75), d (0.25)
	source := &fixedSource{draws: []float64{0.1, 0.8, 0.74, 0.75}}
	m, err := NewWithSource(2, source)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.TrainString(context.Background(), "abcabcabcabd"); err != nil {
		t.Fatal(err)
	}

	var got []rune
	for range 4 {
		c, err := m.SampleNext("ab")
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, c)
	}
	if string(got) != "cdcd" {
		t.Errorf("expected draws to select %q, got %q", "cdcd", string(got))
	}
}

func BenchmarkGenerate(b *testing.B) {
	corpus := createBenchmarkCorpus()
	ctx := context.Background()

	for _, n := range []int{2, 4} {
		m, _ := NewSeeded(n, testSeed)
		if err := m.TrainString(ctx, corpus); err != nil {
			b.Fatalf("TrainString() setup for benchmark failed: %v", err)
		}
		seed := string([]rune(corpus)[:n])

		b.Run(fmt.Sprintf("Window%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				s, _ := m.Generate(ctx, seed, 200)
				b.SetBytes(int64(len(s)))
			}
		})
	}
}
