package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nurpe/contracts-billing/internal/config"
	"github.com/nurpe/contracts-billing/internal/model"
)

type JobService struct {
	tx                 TxRunner
	jobs               JobStore
	pdf                ReceiptGenerator
	enforceClientMatch bool
}

func NewJobService(tx TxRunner, jobs JobStore, pdf ReceiptGenerator, cfg *config.Config) *JobService {
	return &JobService{
		tx:                 tx,
		jobs:               jobs,
		pdf:                pdf,
		enforceClientMatch: cfg.Billing.EnforceClientMatch,
	}
}

// PayForJob settles a job: it debits the payer, credits the contractor and
// marks the job paid, all inside one unit of work. The job row is locked
// first and its paid flag re-checked under the lock, so concurrent attempts
// on the same job serialize and at most one succeeds. Both profile rows are
// locked in a single ordered statement before any balance moves.
func (s *JobService) PayForJob(ctx context.Context, jobID, payerID int64) (*model.Job, error) {
	var paid *model.Job

	err := s.tx.RunInTx(ctx, func(tx TxStore) error {
		job, err := tx.GetJobForUpdate(ctx, jobID)
		if err != nil {
			return err
		}
		if job == nil || job.IsPaid {
			return fmt.Errorf("%w: job %d", ErrJobNotFound, jobID)
		}

		contract, err := tx.GetContractWithParties(ctx, job.ContractID)
		if err != nil {
			return err
		}
		if contract == nil || contract.ContractorID == nil {
			return fmt.Errorf("job %d references contract %d without a contractor", jobID, job.ContractID)
		}

		if s.enforceClientMatch {
			if contract.ClientID == nil || *contract.ClientID != payerID {
				return fmt.Errorf("%w: profile %d, contract %d", ErrNotContractClient, payerID, contract.ID)
			}
		}

		contractorID := *contract.ContractorID
		profiles, err := tx.GetProfilesForUpdate(ctx, []int64{payerID, contractorID})
		if err != nil {
			return err
		}
		payer := profiles[payerID]
		contractor := profiles[contractorID]
		if payer == nil || contractor == nil {
			return fmt.Errorf("%w: payer %d or contractor %d", ErrProfileNotFound, payerID, contractorID)
		}

		if payer.Balance.LessThan(job.Price) {
			return &InsufficientBalanceError{
				CurrentBalance: payer.Balance,
				RequiredAmount: job.Price,
			}
		}

		payer.Balance = payer.Balance.Sub(job.Price)
		contractor.Balance = contractor.Balance.Add(job.Price)
		now := time.Now().UTC()
		job.IsPaid = true
		job.PaidDate = &now

		if err := tx.UpdateProfileBalance(ctx, payer); err != nil {
			return err
		}
		if contractor != payer {
			if err := tx.UpdateProfileBalance(ctx, contractor); err != nil {
				return err
			}
		}
		if err := tx.MarkJobPaid(ctx, job); err != nil {
			return err
		}

		paid = job
		return nil
	})
	if err != nil {
		return nil, wrapTxError("pay for job", jobID, err)
	}
	return paid, nil
}

// ListUnpaidJobs returns the caller's unpaid jobs on in_progress contracts,
// on either side of the contract.
func (s *JobService) ListUnpaidJobs(ctx context.Context, profileID int64) ([]model.Job, error) {
	return s.jobs.ListUnpaidForProfile(ctx, profileID)
}

// Receipt renders a PDF receipt for a paid job. Only a party to the
// contract may fetch it.
func (s *JobService) Receipt(ctx context.Context, jobID, profileID int64) (string, []byte, error) {
	doc, err := s.jobs.GetJobWithParties(ctx, jobID)
	if err != nil {
		return "", nil, err
	}
	if doc == nil || !doc.Job.IsPaid {
		return "", nil, fmt.Errorf("%w: job %d", ErrJobNotFound, jobID)
	}
	if doc.Client.ID != profileID && doc.Contractor.ID != profileID {
		return "", nil, ErrPermissionDenied
	}

	content, err := s.pdf.Generate(*doc)
	if err != nil {
		return "", nil, err
	}
	fileName := fmt.Sprintf("receipt-%s.pdf", strings.ToLower(doc.Job.UUID.String()))
	return fileName, content, nil
}
