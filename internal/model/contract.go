package model

import (
	"time"

	"github.com/google/uuid"
)

type ContractStatus string

const (
	ContractStatusNew        ContractStatus = "new"
	ContractStatusInProgress ContractStatus = "in_progress"
	ContractStatusTerminated ContractStatus = "terminated"
)

// Contract binds one client profile and one contractor profile. The party
// references are nullable at the storage layer (profiles are detached with
// SET NULL) but a payable job requires the contractor to be present.
type Contract struct {
	ID           int64
	UUID         uuid.UUID
	Terms        string
	Status       ContractStatus
	ClientID     *int64
	ContractorID *int64
	Client       *Profile
	Contractor   *Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
