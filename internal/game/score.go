package game

// TotalPoints is the sum of all awarded station points plus one point per
// completed bingo task.
func TotalPoints(t *Team) int {
	total := 0
	for _, p := range t.CompletedStations {
		total += p
	}
	for _, done := range t.BingoMarked {
		if done {
			total++
		}
	}
	return total
}

// Recompute refreshes the derived TotalPoints field. It must run after every
// change to CompletedStations or BingoMarked.
func (t *Team) Recompute() {
	t.TotalPoints = TotalPoints(t)
}
