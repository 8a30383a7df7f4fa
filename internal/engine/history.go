package engine

import "github.com/theirongolddev/capflow/internal/model"

// recordHistory appends the current capital to the bounded history.
func (e *Engine) recordHistory() {
	e.state.History.Push(model.HistoryPoint{Value: e.state.Capital})
}

// HistoryValues returns the capital series, oldest first.
func HistoryValues(s *model.State) []float64 {
	points := s.History.Items()
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = p.Value
	}
	return out
}
