package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/model"
)

// TxStore is the handle a unit of work operates on. Locked fetches block
// until any competing transaction holding the row commits or rolls back.
// Missing rows come back as (nil, nil); errors are reserved for storage
// faults.
type TxStore interface {
	GetProfileForUpdate(ctx context.Context, id int64) (*model.Profile, error)
	// GetProfilesForUpdate locks all requested rows in one statement, in
	// ascending id order, so concurrent payments cannot deadlock on the
	// profile pair.
	GetProfilesForUpdate(ctx context.Context, ids []int64) (map[int64]*model.Profile, error)
	GetJobForUpdate(ctx context.Context, id int64) (*model.Job, error)
	GetContractWithParties(ctx context.Context, id int64) (*model.Contract, error)
	SumOutstandingUnpaid(ctx context.Context, clientID int64) (decimal.Decimal, error)
	UpdateProfileBalance(ctx context.Context, profile *model.Profile) error
	MarkJobPaid(ctx context.Context, job *model.Job) error
}

// TxRunner executes one top-level unit of work. A nil return from fn commits
// everything at once; any error rolls the whole transaction back before it
// propagates. Nesting is not supported.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(tx TxStore) error) error
}

type JobStore interface {
	ListUnpaidForProfile(ctx context.Context, profileID int64) ([]model.Job, error)
	GetJobWithParties(ctx context.Context, jobID int64) (*model.ReceiptDocument, error)
}

type ProfileStore interface {
	GetProfile(ctx context.Context, id int64) (*model.Profile, error)
}

type ContractStore interface {
	GetContractForProfile(ctx context.Context, id, profileID int64) (*model.Contract, error)
	ListActiveContracts(ctx context.Context, profileID int64) ([]model.Contract, error)
}

type ReportStore interface {
	BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.BestClient, error)
	BestProfession(ctx context.Context, start, end time.Time) (*model.BestProfession, error)
}

type ReceiptGenerator interface {
	Generate(doc model.ReceiptDocument) ([]byte, error)
}

type ReportExporter interface {
	Generate(report model.BestClientsReport) ([]byte, error)
}
