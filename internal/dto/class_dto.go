package dto

type CreateClassInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Teacher string `json:"teacher" binding:"max=100"`
}

// UpdateClassInput overwrites all three mutable fields. Points is an absolute
// value, not an increment, so an admin edit may diverge the stored total from
// the ledger history.
type UpdateClassInput struct {
	Name    string `json:"name" binding:"required,max=100"`
	Teacher string `json:"teacher" binding:"max=100"`
	Points  int    `json:"points"`
}
