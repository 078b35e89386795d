package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
)

var (
	// ErrInvalidWindowLength is returned when a model is constructed with a
	// window length that is not positive.
	ErrInvalidWindowLength = errors.New("window length must be positive")
	// ErrCorpusTooShort is returned by Train when the corpus does not contain
	// more characters than the window length, so no window can be followed
	// by a character.
	ErrCorpusTooShort = errors.New("corpus must be longer than the window length")
	// ErrInvalidLength is returned when a negative output length is requested.
	ErrInvalidLength = errors.New("output length must not be negative")
	// ErrWindowNotFound is matched by every LookupMissError.
	ErrWindowNotFound = errors.New("window not found in frequency table")
)

// LookupMissError reports a window that has no entry in the frequency table.
// During generation, Generated holds the number of characters that were
// appended to the seed before the miss.
type LookupMissError struct {
	Window    string
	Generated int
}

func (e *LookupMissError) Error() string {
	return fmt.Sprintf("window %q not found in frequency table after %d generated characters", e.Window, e.Generated)
}

// Is reports whether target is ErrWindowNotFound.
func (e *LookupMissError) Is(target error) bool {
	return target == ErrWindowNotFound
}

// RandomSource supplies uniform draws in [0, 1). *rand.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// Model is a fixed-order character-level Markov model. It owns its frequency
// table and random source, neither of which is safe for concurrent use.
type Model struct {
	windowLength int
	table        *FrequencyTable
	random       RandomSource
	logger       *slog.Logger
}

// New creates a model whose random source is seeded from the runtime's
// entropy, so every run produces different text.
func New(windowLength int) (*Model, error) {
	return NewWithSource(windowLength, rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSeeded creates a model with a deterministic random source. Two models
// built with the same window length and seed, trained on the same corpus,
// generate the same text for the same sequence of calls.
func NewSeeded(windowLength int, seed int64) (*Model, error) {
	return NewWithSource(windowLength, rand.New(rand.NewPCG(uint64(seed), 0)))
}

// NewWithSource creates a model that draws from the given random source.
func NewWithSource(windowLength int, source RandomSource) (*Model, error) {
	if windowLength <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidWindowLength, windowLength)
	}
	if source == nil {
		return nil, errors.New("random source must not be nil")
	}
	return &Model{
		windowLength: windowLength,
		table:        NewFrequencyTable(),
		random:       source,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// SetLogger sets the logger for the Model. By default, all logs are discarded.
func (m *Model) SetLogger(logger *slog.Logger) {
	if logger != nil {
		m.logger = logger
	}
}

// WindowLength returns the number of characters in every window.
func (m *Model) WindowLength() int {
	return m.windowLength
}

// Table returns the model's frequency table. It must be treated as read-only.
func (m *Model) Table() *FrequencyTable {
	return m.table
}

// String returns the diagnostic rendering of the frequency table.
func (m *Model) String() string {
	return m.table.String()
}
