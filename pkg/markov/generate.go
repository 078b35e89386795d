package markov

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// maxPrealloc caps the output capacity Generate reserves up front.
const maxPrealloc = 1 << 16

// SampleNext draws a character to follow window using inverse-CDF sampling
// over the window's cumulative probabilities. A window that was never
// observed during training yields a *LookupMissError.
func (m *Model) SampleNext(window string) (rune, error) {
	c, ok := m.sample(window)
	if !ok {
		return 0, &LookupMissError{Window: window}
	}
	return c, nil
}

// sample is the shared selection step of SampleNext and the generators.
func (m *Model) sample(window string) (rune, bool) {
	list, ok := m.table.Lookup(window)
	if !ok || list.Len() == 0 {
		return 0, false
	}
	return list.Sample(m.random.Float64()), true
}

// startWindow returns the trailing window of seed, or false when generation
// cannot start from seed: either seed is shorter than a window or its
// trailing window was never observed.
func (m *Model) startWindow(seed string) ([]rune, bool) {
	runes := []rune(seed)
	if len(runes) < m.windowLength {
		return nil, false
	}
	window := make([]rune, m.windowLength, m.windowLength+1)
	copy(window, runes[len(runes)-m.windowLength:])
	if _, ok := m.table.Lookup(string(window)); !ok {
		return nil, false
	}
	return window, true
}

// Generate extends seed by length randomly chosen characters. Each character
// is sampled from the distribution of the current trailing window, after
// which the window slides forward by one.
//
// If seed is shorter than the window length, or its trailing window is not in
// the table, seed is returned unchanged. If a window reached while generating
// was never observed during training, the text generated so far is returned
// together with a *LookupMissError.
func (m *Model) Generate(ctx context.Context, seed string, length int) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	window, ok := m.startWindow(seed)
	if !ok {
		m.logger.DebugContext(ctx, "Seed cannot start generation, returning it unchanged",
			slog.String("seed", seed),
			slog.Int("window_length", m.windowLength),
		)
		return seed, nil
	}

	var builder strings.Builder
	builder.Grow(len(seed) + min(length, maxPrealloc))
	builder.WriteString(seed)

	for i := 0; i < length; i++ {
		key := string(window)
		c, ok := m.sample(key)
		if !ok {
			m.logger.DebugContext(ctx, "Generation stopped at unseen window",
				slog.String("window", key),
				slog.Int("generated_length", i),
			)
			return builder.String(), &LookupMissError{Window: key, Generated: i}
		}
		builder.WriteRune(c)
		window = append(window[1:], c)
	}

	m.logger.DebugContext(ctx, "Generation completed",
		slog.Int("seed_length", len(seed)),
		slog.Int("generated_length", length),
	)
	return builder.String(), nil
}
