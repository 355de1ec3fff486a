// Package groups manages commitment groups ("Grupos"), the middle level of
// the DRE hierarchy. Every group belongs to a commitment type.
package groups

// CommitmentGroup groups related commitments under a commitment type.
type CommitmentGroup struct {
	ID               string `json:"id"`
	CompanyID        int64  `json:"company_id"`
	CommitmentTypeID string `json:"commitment_type_id"`
	Name             string `json:"name"`
}

// Input is the create/update payload.
type Input struct {
	ID               string `json:"id" validate:"required,max=64"`
	CompanyID        int64  `json:"company_id" validate:"required,gt=0"`
	CommitmentTypeID string `json:"commitment_type_id" validate:"required,max=64"`
	Name             string `json:"name" validate:"required,max=120"`
}
