package markov

import (
	"strconv"
	"strings"
)

// CharCount holds the statistics of a single character observed after a
// window: its raw count, its probability within the window, and the running
// cumulative probability used for sampling.
type CharCount struct {
	Char        rune
	Count       int
	Probability float64
	Cumulative  float64
}

// CharList is the insertion-ordered collection of CharCounts for one window.
// Entries keep the order in which their characters were first seen, and the
// cumulative probabilities are assigned in that same order.
type CharList struct {
	entries []CharCount
	index   map[rune]int
}

func newCharList() *CharList {
	return &CharList{index: make(map[rune]int)}
}

// update increments the count for c, appending a new entry if c has not
// been seen under this window before.
func (l *CharList) update(c rune) {
	if i, ok := l.index[c]; ok {
		l.entries[i].Count++
		return
	}
	l.index[c] = len(l.entries)
	l.entries = append(l.entries, CharCount{Char: c, Count: 1})
}

// Entries returns a copy of the entries in first-seen order.
func (l *CharList) Entries() []CharCount {
	out := make([]CharCount, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of distinct characters seen after the window.
func (l *CharList) Len() int {
	return len(l.entries)
}

// Total returns the sum of all counts, i.e. the number of times the window
// was observed followed by some character.
func (l *CharList) Total() int {
	var total int
	for _, e := range l.entries {
		total += e.Count
	}
	return total
}

// Get returns the entry for c, if present.
func (l *CharList) Get(c rune) (CharCount, bool) {
	i, ok := l.index[c]
	if !ok {
		return CharCount{}, false
	}
	return l.entries[i], true
}

// calculateProbabilities sets the probability and cumulative probability of
// every entry, walking the entries in stored order.
func (l *CharList) calculateProbabilities() {
	total := float64(l.Total())
	var cumulative float64
	for i := range l.entries {
		p := float64(l.entries[i].Count) / total
		cumulative += p
		l.entries[i].Probability = p
		l.entries[i].Cumulative = cumulative
	}
}

// Sample performs inverse-CDF selection: it returns the first character whose
// cumulative probability is strictly greater than r. If floating point drift
// leaves r unmatched, the last entry is returned.
func (l *CharList) Sample(r float64) rune {
	for _, e := range l.entries {
		if r < e.Cumulative {
			return e.Char
		}
	}
	return l.entries[len(l.entries)-1].Char
}

func (l *CharList) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, e := range l.entries {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteByte('(')
		sb.WriteString(strconv.QuoteRune(e.Char))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(e.Count))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(e.Probability, 'g', 4, 64))
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(e.Cumulative, 'g', 4, 64))
		sb.WriteByte(')')
	}
	sb.WriteByte(')')
	return sb.String()
}

// FrequencyTable maps every observed window to the characters that followed
// it. Windows are remembered in first-seen order so that the diagnostic
// rendering is stable.
type FrequencyTable struct {
	lists   map[string]*CharList
	windows []string
}

// NewFrequencyTable returns an empty table.
func NewFrequencyTable() *FrequencyTable {
	return &FrequencyTable{lists: make(map[string]*CharList)}
}

// RecordOccurrence counts one occurrence of c following window.
func (t *FrequencyTable) RecordOccurrence(window string, c rune) {
	list, ok := t.lists[window]
	if !ok {
		list = newCharList()
		t.lists[window] = list
		t.windows = append(t.windows, window)
	}
	list.update(c)
}

// FinalizeProbabilities derives probability and cumulative probability values
// from the raw counts of every window. It must run after the last
// RecordOccurrence of a training pass and before any sampling.
func (t *FrequencyTable) FinalizeProbabilities() {
	for _, list := range t.lists {
		list.calculateProbabilities()
	}
}

// Lookup returns the character list recorded for window.
func (t *FrequencyTable) Lookup(window string) (*CharList, bool) {
	list, ok := t.lists[window]
	return list, ok
}

// Len returns the number of distinct windows in the table.
func (t *FrequencyTable) Len() int {
	return len(t.lists)
}

// Windows returns the windows in the order they were first observed.
func (t *FrequencyTable) Windows() []string {
	out := make([]string, len(t.windows))
	copy(out, t.windows)
	return out
}

// String renders the table one window per line for debugging.
func (t *FrequencyTable) String() string {
	var sb strings.Builder
	for _, window := range t.windows {
		sb.WriteString(strconv.Quote(window))
		sb.WriteString(" : ")
		sb.WriteString(t.lists[window].String())
		sb.WriteByte('\n')
	}
	return sb.String()
}
