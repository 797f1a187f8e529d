package dto

import "github.com/google/uuid"

type StatsResponse struct {
	TotalClasses     int64 `json:"total_classes"`
	TotalSupervisors int64 `json:"total_supervisors"`
	TotalPoints      int64 `json:"total_points"`
}

// LedgerDrift reports a class whose stored total no longer matches the sum of
// its history entries (expected after an admin overwrite).
type LedgerDrift struct {
	ClassID   uuid.UUID `json:"class_id"`
	ClassName string    `json:"class_name"`
	Points    int64     `json:"points"`
	LedgerSum int64     `json:"ledger_sum"`
}
