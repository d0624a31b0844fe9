package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProfileRole string

const (
	ProfileRoleClient     ProfileRole = "client"
	ProfileRoleContractor ProfileRole = "contractor"
)

// Profile is an account holder. Balance is mutated only inside a locked
// transaction, by payment or deposit.
type Profile struct {
	ID         int64
	UUID       uuid.UUID
	FirstName  string
	LastName   string
	Profession string
	Balance    decimal.Decimal
	Role       ProfileRole
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}
