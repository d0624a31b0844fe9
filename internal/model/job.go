package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Job is a priced unit of work under a contract, payable at most once.
// Once IsPaid flips to true, price, IsPaid and PaidDate never change again.
type Job struct {
	ID          int64
	UUID        uuid.UUID
	Description string
	Price       decimal.Decimal
	IsPaid      bool
	PaidDate    *time.Time
	ContractID  int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
