package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type BestClient struct {
	ID        int64
	FirstName string
	LastName  string
	TotalPaid decimal.Decimal
}

type BestProfession struct {
	Profession    string
	TotalEarnings decimal.Decimal
}

type BestClientsReport struct {
	PeriodStart time.Time
	PeriodEnd   time.Time
	Clients     []BestClient
}

// ReceiptDocument carries everything the PDF renderer needs for a paid job.
type ReceiptDocument struct {
	Job        Job
	Contract   Contract
	Client     Profile
	Contractor Profile
}
