package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// BestClients ranks clients by the total they paid for jobs settled inside
// the window.
func (r *ReportRepository) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.BestClient, error) {
	var clients []model.BestClient
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			cl.id,
			cl.first_name,
			cl.last_name,
			SUM(j.price) AS total_paid
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles cl ON cl.id = c.client_id
		WHERE j.is_paid = TRUE
			AND j.paid_date BETWEEN ? AND ?
		GROUP BY cl.id, cl.first_name, cl.last_name
		ORDER BY total_paid DESC
		LIMIT ?
	`, start, end, limit).Scan(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
}

// BestProfession returns the contractor profession that earned the most in
// the window, or (nil, nil) when nothing was paid.
func (r *ReportRepository) BestProfession(ctx context.Context, start, end time.Time) (*model.BestProfession, error) {
	var best model.BestProfession
	err := r.db.WithContext(ctx).Raw(`
		SELECT
			co.profession,
			SUM(j.price) AS total_earnings
		FROM jobs j
		JOIN contracts c ON c.id = j.contract_id
		JOIN profiles co ON co.id = c.contractor_id
		WHERE j.is_paid = TRUE
			AND j.paid_date BETWEEN ? AND ?
		GROUP BY co.profession
		ORDER BY total_earnings DESC
		LIMIT 1
	`, start, end).Scan(&best).Error
	if err != nil {
		return nil, err
	}
	if best.Profession == "" {
		return nil, nil
	}
	return &best, nil
}
