package dto

// AwardPointsInput carries a signed delta: positive awards points, negative
// deducts them. ClassID is validated in the service so an empty selection
// surfaces as its own error instead of a generic binding failure.
type AwardPointsInput struct {
	ClassID string `json:"class_id"`
	Points  int    `json:"points"`
	Reason  string `json:"reason" binding:"max=255"`
}
