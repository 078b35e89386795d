package markov

// TableStats holds aggregated statistics for a trained frequency table.
type TableStats struct {
	Windows        int // The number of distinct windows observed.
	Transitions    int // The number of unique window->character links.
	TotalFrequency int // The sum of all counts; the number of trained transitions.
	DistinctChars  int // The number of distinct characters that follow some window.
}

// Stats returns a snapshot of statistics for the model's table.
func (m *Model) Stats() TableStats {
	return m.table.Stats()
}

// Stats returns a snapshot of statistics for the table.
func (t *FrequencyTable) Stats() TableStats {
	chars := make(map[rune]struct{})
	stats := TableStats{Windows: len(t.lists)}
	for _, list := range t.lists {
		stats.Transitions += len(list.entries)
		for _, e := range list.entries {
			stats.TotalFrequency += e.Count
			chars[e.Char] = struct{}{}
		}
	}
	stats.DistinctChars = len(chars)
	return stats
}
