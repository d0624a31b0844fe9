package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nurpe/contracts-billing/internal/model"
)

type Seeder struct {
	db  *gorm.DB
	log zerolog.Logger
}

func New(db *gorm.DB, log zerolog.Logger) *Seeder {
	return &Seeder{db: db, log: log}
}

type profileSeed struct {
	firstName  string
	lastName   string
	profession string
	balance    string
	role       model.ProfileRole
}

type contractSeed struct {
	clientIdx     int
	contractorIdx int
	status        model.ContractStatus
	terms         string
}

type jobSeed struct {
	description string
	price       string
	isPaid      bool
	contractIdx int
}

var profiles = []profileSeed{
	{"John", "Doe", "Developer", "1000", model.ProfileRoleClient},
	{"Jane", "Smith", "Designer", "1500", model.ProfileRoleContractor},
	{"Alice", "Johnson", "Project Manager", "2000", model.ProfileRoleClient},
	{"Bob", "Williams", "Developer", "1200", model.ProfileRoleContractor},
	{"Charlie", "Brown", "Designer", "800", model.ProfileRoleContractor},
	{"David", "Miller", "Content Writer", "1800", model.ProfileRoleContractor},
	{"Emma", "Davis", "Marketing Specialist", "2200", model.ProfileRoleClient},
	{"Frank", "Wilson", "Data Analyst", "1600", model.ProfileRoleContractor},
	{"Grace", "Taylor", "UX Researcher", "1900", model.ProfileRoleContractor},
	{"Henry", "Anderson", "SEO Specialist", "1700", model.ProfileRoleClient},
	{"Isabelle", "Thomas", "Copywriter", "1300", model.ProfileRoleContractor},
	{"Jack", "White", "DevOps Engineer", "2100", model.ProfileRoleContractor},
	{"Kate", "Lee", "Product Manager", "2300", model.ProfileRoleClient},
	{"Liam", "Harris", "Frontend Developer", "1400", model.ProfileRoleContractor},
	{"Mia", "Clark", "Backend Developer", "1700", model.ProfileRoleContractor},
}

// Contracts pair each client with contractors; indexes refer to the profile
// list above.
var contracts = []contractSeed{
	{0, 1, model.ContractStatusInProgress, "Website redesign for client portal"},
	{0, 3, model.ContractStatusInProgress, "Backend API development"},
	{2, 4, model.ContractStatusNew, "Brand identity refresh"},
	{2, 5, model.ContractStatusInProgress, "Technical documentation"},
	{6, 7, model.ContractStatusInProgress, "Campaign analytics dashboard"},
	{6, 8, model.ContractStatusTerminated, "User research study"},
	{9, 10, model.ContractStatusInProgress, "Landing page copy"},
	{9, 11, model.ContractStatusInProgress, "Infrastructure migration"},
	{12, 13, model.ContractStatusInProgress, "Storefront frontend"},
	{12, 14, model.ContractStatusInProgress, "Order service backend"},
	{0, 5, model.ContractStatusNew, "Release notes writing"},
	{6, 1, model.ContractStatusInProgress, "Ad creative design"},
	{9, 14, model.ContractStatusTerminated, "Search indexing service"},
	{12, 8, model.ContractStatusInProgress, "Checkout usability interviews"},
}

var jobs = []jobSeed{
	{"Build authentication module", "1100", false, 0},
	{"Design landing page mockups", "600", false, 0},
	{"Implement payment API", "1500", true, 1},
	{"Create logo concepts", "700", false, 2},
	{"Write API reference", "900", false, 3},
	{"Build analytics widgets", "1200", false, 4},
	{"Conduct user interviews", "1000", true, 5},
	{"Write copy for homepage", "500", false, 6},
	{"Set up CI/CD pipeline", "1800", true, 7},
	{"Develop product listing page", "1300", false, 8},
	{"Create RESTful API endpoints", "1600", true, 9},
	{"Design mobile app icons", "400", false, 10},
	{"Implement database indexing", "900", true, 11},
	{"Run checkout usability sessions", "750", false, 13},
}

// Run populates an empty database with the demo data set. It is a no-op
// when profiles already exist.
func (s *Seeder) Run(ctx context.Context) error {
	var count int64
	if err := s.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM profiles`).Scan(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		s.log.Info().Msg("seed skipped, profiles already present")
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		profileIDs := make([]int64, len(profiles))
		for i, p := range profiles {
			balance, err := decimal.NewFromString(p.balance)
			if err != nil {
				return fmt.Errorf("seed profile %d: %w", i, err)
			}
			var id int64
			err = tx.Raw(`
				INSERT INTO profiles (uuid, first_name, last_name, profession, balance, role)
				VALUES (?, ?, ?, ?, ?, ?)
				RETURNING id
			`, uuid.New(), p.firstName, p.lastName, p.profession, balance, p.role).Scan(&id).Error
			if err != nil {
				return err
			}
			profileIDs[i] = id
		}

		contractIDs := make([]int64, len(contracts))
		for i, c := range contracts {
			var id int64
			err := tx.Raw(`
				INSERT INTO contracts (uuid, terms, status, client_id, contractor_id)
				VALUES (?, ?, ?, ?, ?)
				RETURNING id
			`, uuid.New(), c.terms, c.status, profileIDs[c.clientIdx], profileIDs[c.contractorIdx]).Scan(&id).Error
			if err != nil {
				return err
			}
			contractIDs[i] = id
		}

		for i, j := range jobs {
			price, err := decimal.NewFromString(j.price)
			if err != nil {
				return fmt.Errorf("seed job %d: %w", i, err)
			}
			stmt := `
				INSERT INTO jobs (uuid, description, price, is_paid, paid_date, contract_id)
				VALUES (?, ?, ?, ?, CASE WHEN ? THEN NOW() END, ?)
			`
			if err := tx.Exec(stmt, uuid.New(), j.description, price, j.isPaid, j.isPaid, contractIDs[j.contractIdx]).Error; err != nil {
				return err
			}
		}

		s.log.Info().
			Int("profiles", len(profiles)).
			Int("contracts", len(contracts)).
			Int("jobs", len(jobs)).
			Msg("seed completed")
		return nil
	})
}
