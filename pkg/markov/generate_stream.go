package markov

import (
	"context"
	"fmt"
	"log/slog"
)

// GenerateStream works like Generate but delivers the sampled characters one
// at a time over a read-only channel. The seed itself is not sent. The
// character channel is closed once length characters have been sent, when an
// unseen window is reached, or when the context is cancelled. A seed that
// cannot start generation yields a channel that is closed without sending
// anything.
//
// The error channel receives exactly one value after the character channel
// is closed: nil on completion, a *LookupMissError when an unseen window was
// reached, or the context's error on cancellation. It is then closed.
//
// The stream draws from the model's random source, so the model must not be
// used for anything else until the channels are closed.
func (m *Model) GenerateStream(ctx context.Context, seed string, length int) (<-chan rune, <-chan error, error) {
	if length < 0 {
		return nil, nil, fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	charChan := make(chan rune)
	errChan := make(chan error, 1)

	window, ok := m.startWindow(seed)
	if !ok {
		close(charChan)
		errChan <- nil
		close(errChan)
		return charChan, errChan, nil
	}

	go func() {
		var streamErr error
		defer func() {
			close(charChan)
			errChan <- streamErr
			close(errChan)
		}()

		for i := 0; i < length; i++ {
			if err := ctx.Err(); err != nil {
				m.logger.DebugContext(ctx, "Generation stream cancelled by context")
				streamErr = err
				return
			}

			key := string(window)
			c, ok := m.sample(key)
			if !ok {
				m.logger.DebugContext(ctx, "Generation stream stopped at unseen window",
					slog.String("window", key),
					slog.Int("generated_length", i),
				)
				streamErr = &LookupMissError{Window: key, Generated: i}
				return
			}

			select {
			case <-ctx.Done():
				streamErr = ctx.Err()
				return
			case charChan <- c:
			}
			window = append(window[1:], c)
		}
	}()

	return charChan, errChan, nil
}
