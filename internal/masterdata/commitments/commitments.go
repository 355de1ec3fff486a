// Package commitments manages commitments ("Naturezas"), the finest
// classification leaf a transaction can be tagged with. Every commitment
// carries a default group; a classification row may still reassign it.
package commitments

// Commitment is a leaf classification entry (e.g. a specific expense
// account).
type Commitment struct {
	ID                string `json:"id"`
	CompanyID         int64  `json:"company_id"`
	CommitmentGroupID string `json:"commitment_group_id"`
	Name              string `json:"name"`
}

// Input is the create/update payload.
type Input struct {
	ID                string `json:"id" validate:"required,max=64"`
	CompanyID         int64  `json:"company_id" validate:"required,gt=0"`
	CommitmentGroupID string `json:"commitment_group_id" validate:"required,max=64"`
	Name              string `json:"name" validate:"required,max=120"`
}
