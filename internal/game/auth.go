package game

import "fmt"

// Credentials holds the station staff secrets and the admin secret.
// Secrets are compared by exact string equality; an empty configured
// secret never matches.
type Credentials struct {
	Stations [StationCount]string
	Admin    string
}

func (c Credentials) AuthorizeStation(station StationID, secret string) error {
	if !station.Valid() {
		return fmt.Errorf("station %d: %w", station, ErrNotFound)
	}
	want := c.Stations[station-1]
	if want == "" || secret != want {
		return fmt.Errorf("station %d: %w", station, ErrUnauthorized)
	}
	return nil
}

func (c Credentials) AuthorizeAdmin(secret string) error {
	if c.Admin == "" || secret != c.Admin {
		return fmt.Errorf("admin: %w", ErrUnauthorized)
	}
	return nil
}
