package game

import (
	"fmt"
	"regexp"
	"strconv"
)

const (
	TeamCount    = 6
	StationCount = 6
)

// TeamID identifies one of the six competing teams.
type TeamID int

func (id TeamID) Valid() bool { return id >= 1 && id <= TeamCount }

// ParseTeamID parses a decimal team id and checks it is in range.
func ParseTeamID(s string) (TeamID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: team id %q is not a number", ErrInvalidInput, s)
	}
	id := TeamID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("team %d: %w", n, ErrNotFound)
	}
	return id, nil
}

// StationID identifies one of the six stations.
type StationID int

func (id StationID) Valid() bool { return id >= 1 && id <= StationCount }

func ParseStationID(s string) (StationID, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: station id %q is not a number", ErrInvalidInput, s)
	}
	id := StationID(n)
	if !id.Valid() {
		return 0, fmt.Errorf("station %d: %w", n, ErrNotFound)
	}
	return id, nil
}

// TaskID identifies a bingo task from the external task catalog. It is used
// as part of evidence file names, so only a conservative alphabet is allowed.
type TaskID string

var taskIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

func (k TaskID) Validate() error {
	if !taskIDPattern.MatchString(string(k)) {
		return fmt.Errorf("%w: malformed task id %q", ErrInvalidInput, string(k))
	}
	return nil
}
