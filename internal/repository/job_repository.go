package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db: db}
}

// ListUnpaidForProfile returns unpaid jobs on in_progress contracts where
// the profile is either party.
func (r *JobRepository) ListUnpaidForProfile(ctx context.Context, profileID int64) ([]model.Job, error) {
	var jobs []model.Job
	err := r.db.WithContext(ctx).Raw(`
		SELECT j.id, j.uuid, j.description, j.price, j.is_paid, j.paid_date, j.contract_id, j.created_at, j.updated_at
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE j.is_paid = FALSE
			AND c.status = 'in_progress'
			AND (c.client_id = ? OR c.contractor_id = ?)
		ORDER BY j.id
	`, profileID, profileID).Scan(&jobs).Error
	if err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJobWithParties loads a job with its contract and both parties, for the
// receipt rendering. Returns (nil, nil) when the job is missing or either
// party has been detached from the contract.
func (r *JobRepository) GetJobWithParties(ctx context.Context, jobID int64) (*model.ReceiptDocument, error) {
	var row struct {
		ID                   int64
		UUID                 uuid.UUID
		Description          string
		Price                decimal.Decimal
		IsPaid               bool
		PaidDate             *time.Time
		ContractID           int64
		CreatedAt            time.Time
		UpdatedAt            time.Time
		ContractUUID         uuid.UUID
		Terms                string
		Status               model.ContractStatus
		ClientID             int64
		ClientUUID           uuid.UUID
		ClientFirstName      string
		ClientLastName       string
		ClientProfession     string
		ContractorID         int64
		ContractorUUID       uuid.UUID
		ContractorFirstName  string
		ContractorLastName   string
		ContractorProfession string
	}

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			j.id,
			j.uuid,
			j.description,
			j.price,
			j.is_paid,
			j.paid_date,
			j.contract_id,
			j.created_at,
			j.updated_at,
			c.uuid AS contract_uuid,
			c.terms,
			c.status,
			cl.id AS client_id,
			cl.uuid AS client_uuid,
			cl.first_name AS client_first_name,
			cl.last_name AS client_last_name,
			cl.profession AS client_profession,
			co.id AS contractor_id,
			co.uuid AS contractor_uuid,
			co.first_name AS contractor_first_name,
			co.last_name AS contractor_last_name,
			co.profession AS contractor_profession
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles cl ON cl.id = c.client_id
		JOIN profiles co ON co.id = c.contractor_id
		WHERE j.id = ?
	`, jobID).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}

	return &model.ReceiptDocument{
		Job: model.Job{
			ID:          row.ID,
			UUID:        row.UUID,
			Description: row.Description,
			Price:       row.Price,
			IsPaid:      row.IsPaid,
			PaidDate:    row.PaidDate,
			ContractID:  row.ContractID,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
		Contract: model.Contract{
			ID:           row.ContractID,
			UUID:         row.ContractUUID,
			Terms:        row.Terms,
			Status:       row.Status,
			ClientID:     &row.ClientID,
			ContractorID: &row.ContractorID,
		},
		Client: model.Profile{
			ID:         row.ClientID,
			UUID:       row.ClientUUID,
			FirstName:  row.ClientFirstName,
			LastName:   row.ClientLastName,
			Profession: row.ClientProfession,
			Role:       model.ProfileRoleClient,
		},
		Contractor: model.Profile{
			ID:         row.ContractorID,
			UUID:       row.ContractorUUID,
			FirstName:  row.ContractorFirstName,
			LastName:   row.ContractorLastName,
			Profession: row.ContractorProfession,
			Role:       model.ProfileRoleContractor,
		},
	}, nil
}
