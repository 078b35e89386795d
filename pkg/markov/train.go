package markov

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ctxCheckInterval is how many characters are consumed between context checks.
const ctxCheckInterval = 1 << 16

// Train reads the whole corpus from data and records, for every window of
// the corpus, the character that follows it. Once the stream is exhausted the
// probabilities of every window are derived from the counts.
//
// Training is not a reset: calling Train again adds the new counts to the
// existing table and re-derives all probabilities. If the corpus has no more
// characters than the window length, ErrCorpusTooShort is returned and the
// table is left untouched. Read errors and context cancellation are returned
// after the probabilities of what was already counted have been derived.
func (m *Model) Train(ctx context.Context, data io.Reader) error {
	reader := bufio.NewReader(data)

	window := make([]rune, 0, m.windowLength+1)
	for len(window) < m.windowLength {
		c, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("%w: read %d of %d window characters", ErrCorpusTooShort, len(window), m.windowLength)
			}
			return fmt.Errorf("could not read corpus: %w", err)
		}
		window = append(window, c)
	}

	var transitions int64
	for {
		if transitions%ctxCheckInterval == 0 && transitions > 0 {
			if err := ctx.Err(); err != nil {
				m.table.FinalizeProbabilities()
				return err
			}
		}

		c, _, err := reader.ReadRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			m.table.FinalizeProbabilities()
			return fmt.Errorf("could not read corpus: %w", err)
		}

		m.table.RecordOccurrence(string(window), c)
		// Slide the window: drop the first character and append c.
		window = append(window[1:], c)
		transitions++
	}

	if transitions == 0 {
		return fmt.Errorf("%w: corpus holds exactly %d characters", ErrCorpusTooShort, m.windowLength)
	}

	m.table.FinalizeProbabilities()

	m.logger.InfoContext(ctx, "Training completed",
		slog.Int("window_length", m.windowLength),
		slog.Int64("transitions_processed", transitions),
		slog.Int("windows", m.table.Len()),
	)
	return nil
}

// TrainString is a convenience wrapper around Train for an in-memory corpus.
func (m *Model) TrainString(ctx context.Context, corpus string) error {
	return m.Train(ctx, strings.NewReader(corpus))
}
