package testbank

import "math/rand/v2"

// Select draws howMany distinct questions in uniformly random order.
func Select(all []Question, howMany int) []Question {
	return SelectWith(nil, all, howMany)
}

// SelectWith is Select with an explicit random source; a nil rng uses the global one.
func SelectWith(rng *rand.Rand, all []Question, howMany int) []Question {
	if howMany > len(all) {
		howMany = len(all)
	}
	if howMany <= 0 {
		return []Question{}
	}

	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	shuffled := make([]Question, len(all))
	copy(shuffled, all)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := intN(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:howMany:howMany]
}

func IDs(questions []Question) []string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = q.ID
	}
	return ids
}
