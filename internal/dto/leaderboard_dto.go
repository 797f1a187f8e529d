package dto

import "github.com/google/uuid"

// LeaderboardEntry is one ranked row of the class leaderboard.
// Rank is 1-based.
type LeaderboardEntry struct {
	Rank    int       `json:"rank"`
	ClassID uuid.UUID `json:"class_id"`
	Name    string    `json:"name"`
	Teacher string    `json:"teacher"`
	Points  int       `json:"points"`
}
