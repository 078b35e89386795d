/*
Package markov provides a fixed-order, character-level Markov text model.

A Model learns, from a corpus, how often each character follows every window
of N preceding characters. The counts are turned into probabilities and
cumulative probabilities, which Generate then uses to extend a seed string
one sampled character at a time.

Models built with NewSeeded are fully reproducible, which makes them suitable
for debugging and tests; New draws its randomness from the runtime.

	m, err := markov.NewSeeded(3, 20)
	if err != nil {
		return err
	}
	if err := m.TrainString(ctx, corpus); err != nil {
		return err
	}
	text, err := m.Generate(ctx, "abc", 100)

A Model is not safe for concurrent use.
*/
package markov
