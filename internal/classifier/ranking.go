package classifier

import "sort"

// Ranking is one class with its calibrated probability.
type Ranking struct {
	Class string
	Score float64
}

// Rankings is a sortable list of class scores.
type Rankings []Ranking

// Len implements sort.Interface.
func (r Rankings) Len() int { return len(r) }

// Less implements sort.Interface - higher scores come first.
func (r Rankings) Less(i, j int) bool {
	if r[i].Score != r[j].Score {
		return r[i].Score > r[j].Score
	}
	// Equal scores sort by class name for consistency.
	return r[i].Class < r[j].Class
}

// Swap implements sort.Interface.
func (r Rankings) Swap(i, j int) { r[i], r[j] = r[j], r[i] }

// Rankings returns the prediction's distribution as a list sorted by
// descending score.
func (p Prediction) Rankings() Rankings {
	out := make(Rankings, 0, len(p.Probabilities))
	for class, score := range p.Probabilities {
		out = append(out, Ranking{Class: class, Score: score})
	}
	sort.Sort(out)
	return out
}
