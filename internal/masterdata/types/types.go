// Package types manages commitment types ("Tipos"), the top level of the
// DRE hierarchy.
package types

// CommitmentType is the coarsest classification bucket (e.g. Receita,
// Custo, Despesa).
type CommitmentType struct {
	ID        string `json:"id"`
	CompanyID int64  `json:"company_id"`
	Name      string `json:"name"`
}

// Input is the create/update payload.
type Input struct {
	ID        string `json:"id" validate:"required,max=64"`
	CompanyID int64  `json:"company_id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=120"`
}
