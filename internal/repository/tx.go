package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
	"github.com/nurpe/contracts-billing/internal/service"
)

// TxManager runs units of work on postgres. Every call opens exactly one
// transaction: a nil return from fn commits, any error rolls back. Row locks
// are taken with SELECT ... FOR UPDATE and released with the transaction,
// so there is no leaked-lock path.
type TxManager struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

func NewTxManager(db *gorm.DB, lockTimeout string) (*TxManager, error) {
	m := &TxManager{db: db}
	if lockTimeout != "" {
		timeout, err := time.ParseDuration(lockTimeout)
		if err != nil {
			return nil, fmt.Errorf("DB_LOCK_TIMEOUT is not a valid duration: %w", err)
		}
		m.lockTimeout = timeout
	}
	return m, nil
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(tx service.TxStore) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if m.lockTimeout > 0 {
			// Bounds every lock wait in this transaction; a timeout aborts
			// the transaction and surfaces as a transient failure.
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(&txStore{tx: tx})
	})
}

var _ service.TxRunner = (*TxManager)(nil)

// txStore is the locked view handed to a unit of work. Missing rows come
// back as (nil, nil).
type txStore struct {
	tx *gorm.DB
}

func (s *txStore) GetProfileForUpdate(ctx context.Context, id int64) (*model.Profile, error) {
	var profile model.Profile
	err := s.tx.WithContext(ctx).Raw(`
		SELECT id, uuid, first_name, last_name, profession, balance, role, created_at, updated_at
		FROM profiles
		WHERE id = ?
		FOR UPDATE
	`, id).Scan(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (s *txStore) GetProfilesForUpdate(ctx context.Context, ids []int64) (map[int64]*model.Profile, error) {
	// One ordered statement locks the whole set, so two payments touching
	// the same pair always acquire in the same order.
	var profiles []model.Profile
	err := s.tx.WithContext(ctx).Raw(`
		SELECT id, uuid, first_name, last_name, profession, balance, role, created_at, updated_at
		FROM profiles
		WHERE id IN ?
		ORDER BY id
		FOR UPDATE
	`, ids).Scan(&profiles).Error
	if err != nil {
		return nil, err
	}

	result := make(map[int64]*model.Profile, len(profiles))
	for i := range profiles {
		result[profiles[i].ID] = &profiles[i]
	}
	return result, nil
}

func (s *txStore) GetJobForUpdate(ctx context.Context, id int64) (*model.Job, error) {
	var job model.Job
	err := s.tx.WithContext(ctx).Raw(`
		SELECT id, uuid, description, price, is_paid, paid_date, contract_id, created_at, updated_at
		FROM jobs
		WHERE id = ?
		FOR UPDATE
	`, id).Scan(&job).Error
	if err != nil {
		return nil, err
	}
	if job.ID == 0 {
		return nil, nil
	}
	return &job, nil
}

func (s *txStore) GetContractWithParties(ctx context.Context, id int64) (*model.Contract, error) {
	return scanContract(s.tx.WithContext(ctx), `WHERE c.id = ?`, id)
}

func (s *txStore) SumOutstandingUnpaid(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := s.tx.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(j.price), 0) AS total
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		WHERE c.client_id = ?
			AND j.is_paid = FALSE
	`, clientID).Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

func (s *txStore) UpdateProfileBalance(ctx context.Context, profile *model.Profile) error {
	return s.tx.WithContext(ctx).Exec(`
		UPDATE profiles
		SET balance = ?, updated_at = NOW()
		WHERE id = ?
	`, profile.Balance, profile.ID).Error
}

func (s *txStore) MarkJobPaid(ctx context.Context, job *model.Job) error {
	return s.tx.WithContext(ctx).Exec(`
		UPDATE jobs
		SET is_paid = ?, paid_date = ?, updated_at = NOW()
		WHERE id = ?
	`, job.IsPaid, job.PaidDate, job.ID).Error
}

var _ service.TxStore = (*txStore)(nil)
