package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

const contractSelect = `
	SELECT
		c.id,
		c.uuid,
		c.terms,
		c.status,
		c.client_id,
		c.contractor_id,
		c.created_at,
		c.updated_at,
		cl.uuid AS client_uuid,
		cl.first_name AS client_first_name,
		cl.last_name AS client_last_name,
		cl.profession AS client_profession,
		cl.balance AS client_balance,
		cl.role AS client_role,
		co.uuid AS contractor_uuid,
		co.first_name AS contractor_first_name,
		co.last_name AS contractor_last_name,
		co.profession AS contractor_profession,
		co.balance AS contractor_balance,
		co.role AS contractor_role
	FROM contracts c
	LEFT JOIN profiles cl ON cl.id = c.client_id
	LEFT JOIN profiles co ON co.id = c.contractor_id
`

type contractRow struct {
	ID                   int64
	UUID                 uuid.UUID
	Terms                string
	Status               model.ContractStatus
	ClientID             *int64
	ContractorID         *int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
	ClientUUID           *uuid.UUID
	ClientFirstName      *string
	ClientLastName       *string
	ClientProfession     *string
	ClientBalance        *decimal.Decimal
	ClientRole           *model.ProfileRole
	ContractorUUID       *uuid.UUID
	ContractorFirstName  *string
	ContractorLastName   *string
	ContractorProfession *string
	ContractorBalance    *decimal.Decimal
	ContractorRole       *model.ProfileRole
}

func (row *contractRow) toModel() *model.Contract {
	contract := &model.Contract{
		ID:           row.ID,
		UUID:         row.UUID,
		Terms:        row.Terms,
		Status:       row.Status,
		ClientID:     row.ClientID,
		ContractorID: row.ContractorID,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
	if row.ClientID != nil && row.ClientUUID != nil {
		contract.Client = &model.Profile{
			ID:         *row.ClientID,
			UUID:       *row.ClientUUID,
			FirstName:  *row.ClientFirstName,
			LastName:   *row.ClientLastName,
			Profession: *row.ClientProfession,
			Balance:    *row.ClientBalance,
			Role:       *row.ClientRole,
		}
	}
	if row.ContractorID != nil && row.ContractorUUID != nil {
		contract.Contractor = &model.Profile{
			ID:         *row.ContractorID,
			UUID:       *row.ContractorUUID,
			FirstName:  *row.ContractorFirstName,
			LastName:   *row.ContractorLastName,
			Profession: *row.ContractorProfession,
			Balance:    *row.ContractorBalance,
			Role:       *row.ContractorRole,
		}
	}
	return contract
}

// scanContract runs the shared contract+parties join with the given WHERE
// clause. Returns (nil, nil) when no row matches.
func scanContract(db *gorm.DB, where string, args ...interface{}) (*model.Contract, error) {
	var row contractRow
	if err := db.Raw(contractSelect+where, args...).Scan(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == 0 {
		return nil, nil
	}
	return row.toModel(), nil
}

// GetContractForProfile returns the contract only when the given profile is
// one of its parties; otherwise (nil, nil), indistinguishable from missing.
func (r *ContractRepository) GetContractForProfile(ctx context.Context, id, profileID int64) (*model.Contract, error) {
	return scanContract(r.db.WithContext(ctx), `
		WHERE c.id = ?
			AND (c.client_id = ? OR c.contractor_id = ?)
	`, id, profileID, profileID)
}

func (r *ContractRepository) ListActiveContracts(ctx context.Context, profileID int64) ([]model.Contract, error) {
	var rows []contractRow
	err := r.db.WithContext(ctx).Raw(contractSelect+`
		WHERE (c.client_id = ? OR c.contractor_id = ?)
			AND c.status = 'in_progress'
		ORDER BY c.id
	`, profileID, profileID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	contracts := make([]model.Contract, 0, len(rows))
	for i := range rows {
		contracts = append(contracts, *rows[i].toModel())
	}
	return contracts, nil
}
