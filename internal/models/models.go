// Package models defines the data structures shared between the query
// pipeline and the HTTP API.
package models

import "time"

// Source marks whether a record came from a live query or was synthesized.
type Source string

const (
	// SourceReal marks a record decoded from a live server response.
	SourceReal Source = "real"

	// SourceMock marks a deterministically synthesized stand-in record.
	SourceMock Source = "mock"
)

// Target identifies a single game server to query.
// Address is an IPv4 dotted-quad string, Port is in 1-65535.
// Targets are validated before they reach the query pipeline.
type Target struct {
	Address string `json:"address"`
	Port    int    `json:"port"`
}

// Player is a single entry of a server's player list.
// Slot values are unique and sequential starting at 1.
type Player struct {
	Name  string `json:"name"`
	Slot  int    `json:"slot"`
	Score int    `json:"score"`
	Ping  int    `json:"ping"`
}

// Server is the status record returned for every queried target.
// Version, Description, Tags, Website and Ping are populated for
// synthesized records only; the live information response does not
// carry them.
type Server struct {
	ObservedAt  time.Time `json:"observed_at"`
	Address     string    `json:"address"`
	Hostname    string    `json:"hostname"`
	Gamemode    string    `json:"gamemode"`
	Language    string    `json:"language"`
	CountryCode string    `json:"country_code,omitempty"`
	Version     string    `json:"version,omitempty"`
	Description string    `json:"description,omitempty"`
	Website     string    `json:"website,omitempty"`
	Source      Source    `json:"source"`
	Tags        []string  `json:"tags,omitempty"`
	PlayerList  []Player  `json:"player_list,omitempty"`
	Port        int       `json:"port"`
	Players     int       `json:"players"`
	MaxPlayers  int       `json:"max_players"`
	Ping        int       `json:"ping,omitempty"`
	Online      bool      `json:"online"`
	Password    bool      `json:"password"`
}
