package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nurpe/contracts-billing/internal/model"
)

const defaultBestClientsLimit = 2

type AdminService struct {
	reports ReportStore
	excel   ReportExporter
}

func NewAdminService(reports ReportStore, excel ReportExporter) *AdminService {
	return &AdminService{reports: reports, excel: excel}
}

func (s *AdminService) BestClients(ctx context.Context, start, end time.Time, limit int) ([]model.BestClient, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = defaultBestClientsLimit
	}
	return s.reports.BestClients(ctx, start, end, limit)
}

func (s *AdminService) BestProfession(ctx context.Context, start, end time.Time) (*model.BestProfession, error) {
	if err := validateWindow(start, end); err != nil {
		return nil, err
	}
	best, err := s.reports.BestProfession(ctx, start, end)
	if err != nil {
		return nil, err
	}
	if best == nil {
		return nil, fmt.Errorf("%w: no paid jobs in period", ErrNotFound)
	}
	return best, nil
}

// ExportBestClients renders the best-clients ranking as an xlsx workbook.
func (s *AdminService) ExportBestClients(ctx context.Context, start, end time.Time, limit int) (string, []byte, error) {
	clients, err := s.BestClients(ctx, start, end, limit)
	if err != nil {
		return "", nil, err
	}

	report := model.BestClientsReport{
		PeriodStart: start,
		PeriodEnd:   end,
		Clients:     clients,
	}
	content, err := s.excel.Generate(report)
	if err != nil {
		return "", nil, err
	}

	fileName := fmt.Sprintf("best-clients-%s-%s.xlsx",
		start.Format("20060102"), end.Format("20060102"))
	return fileName, content, nil
}

func validateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("%w: start and end are required", ErrInvalidInput)
	}
	if start.After(end) {
		return fmt.Errorf("%w: start must be before or equal to end", ErrInvalidInput)
	}
	return nil
}
