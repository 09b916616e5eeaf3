package game

var canonicalOrder = [StationCount]StationID{1, 2, 3, 4, 5, 6}

// RouteFor returns the station visiting order for a team: the canonical order
// rotated left by (id-1) mod 6. Every team starts at a different station and
// visits each station exactly once.
func RouteFor(id TeamID) []StationID {
	offset := (int(id) - 1) % StationCount
	if offset < 0 {
		offset += StationCount
	}
	route := make([]StationID, 0, StationCount)
	route = append(route, canonicalOrder[offset:]...)
	return append(route, canonicalOrder[:offset]...)
}

// isRoute reports whether order visits each station exactly once.
func isRoute(order []StationID) bool {
	if len(order) != StationCount {
		return false
	}
	var seen [StationCount]bool
	for _, s := range order {
		if !s.Valid() || seen[s-1] {
			return false
		}
		seen[s-1] = true
	}
	return true
}
