package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/config"
	"github.com/nurpe/contracts-billing/internal/model"
)

func testConfig(enforceClientMatch bool) *config.Config {
	return &config.Config{
		Billing: config.BillingConfig{
			DepositLimitRatio:  decimal.RequireFromString("0.25"),
			EnforceClientMatch: enforceClientMatch,
		},
	}
}

func ptr(v int64) *int64 {
	return &v
}

func payableStore() *fakeStore {
	store := newFakeStore()
	store.addProfile(1, "200", model.ProfileRoleClient)
	store.addProfile(2, "50", model.ProfileRoleContractor)
	store.addContract(10, ptr(1), ptr(2), model.ContractStatusInProgress)
	store.addJob(100, 10, "100", false)
	return store
}

func TestPayForJobSuccess(t *testing.T) {
	store := payableStore()
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	job, err := svc.PayForJob(context.Background(), 100, 1)
	if err != nil {
		t.Fatalf("PayForJob: %v", err)
	}
	if !job.IsPaid {
		t.Fatal("job not marked paid")
	}
	if job.PaidDate == nil {
		t.Fatal("paid date not set")
	}
	if got := store.balance(1); !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("payer balance = %s, want 100", got)
	}
	if got := store.balance(2); !got.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("contractor balance = %s, want 150", got)
	}
	if !store.jobs[100].IsPaid {
		t.Fatal("job not persisted as paid")
	}
}

func TestPayForJobConservation(t *testing.T) {
	store := payableStore()
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	before := store.balance(1).Add(store.balance(2))
	if _, err := svc.PayForJob(context.Background(), 100, 1); err != nil {
		t.Fatalf("PayForJob: %v", err)
	}
	after := store.balance(1).Add(store.balance(2))
	if !before.Equal(after) {
		t.Fatalf("sum of balances changed: before %s, after %s", before, after)
	}
}

func TestPayForJobInsufficientBalance(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, "50", model.ProfileRoleClient)
	store.addProfile(2, "10", model.ProfileRoleContractor)
	store.addContract(10, ptr(1), ptr(2), model.ContractStatusInProgress)
	store.addJob(100, 10, "100", false)
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	_, err := svc.PayForJob(context.Background(), 100, 1)
	var insufficient *InsufficientBalanceError
	if !errors.As(err, &insufficient) {
		t.Fatalf("err = %v, want InsufficientBalanceError", err)
	}
	if !insufficient.CurrentBalance.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("current balance = %s, want 50", insufficient.CurrentBalance)
	}
	if !insufficient.RequiredAmount.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("required amount = %s, want 100", insufficient.RequiredAmount)
	}
	if got := store.balance(1); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("payer balance mutated to %s", got)
	}
	if store.jobs[100].IsPaid {
		t.Fatal("job marked paid on failed payment")
	}
}

func TestPayForJobMissingOrPaid(t *testing.T) {
	store := payableStore()
	store.addJob(101, 10, "100", true)
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	tests := []struct {
		name  string
		jobID int64
	}{
		{name: "missing job", jobID: 999},
		{name: "already paid job", jobID: 101},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PayForJob(context.Background(), tt.jobID, 1)
			if !errors.Is(err, ErrJobNotFound) {
				t.Fatalf("err = %v, want ErrJobNotFound", err)
			}
		})
	}
}

func TestPayForJobSecondAttemptFails(t *testing.T) {
	store := payableStore()
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	if _, err := svc.PayForJob(context.Background(), 100, 1); err != nil {
		t.Fatalf("first payment: %v", err)
	}
	payerAfter := store.balance(1)
	contractorAfter := store.balance(2)

	_, err := svc.PayForJob(context.Background(), 100, 1)
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("second payment err = %v, want ErrJobNotFound", err)
	}
	if !store.balance(1).Equal(payerAfter) || !store.balance(2).Equal(contractorAfter) {
		t.Fatal("balances changed on rejected duplicate payment")
	}
}

func TestPayForJobMissingProfiles(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, "200", model.ProfileRoleClient)
	store.addContract(10, ptr(1), ptr(2), model.ContractStatusInProgress)
	store.addJob(100, 10, "100", false)
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	_, err := svc.PayForJob(context.Background(), 100, 1)
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("err = %v, want ErrProfileNotFound", err)
	}
}

func TestPayForJobContractWithoutContractor(t *testing.T) {
	store := newFakeStore()
	store.addProfile(1, "200", model.ProfileRoleClient)
	store.addContract(10, ptr(1), nil, model.ContractStatusInProgress)
	store.addJob(100, 10, "100", false)
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	_, err := svc.PayForJob(context.Background(), 100, 1)
	var txErr *TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("err = %v, want TransactionError", err)
	}
	if txErr.Op != "pay for job" || txErr.EntityID != 100 {
		t.Fatalf("unexpected transaction error context: op=%q id=%d", txErr.Op, txErr.EntityID)
	}
}

func TestPayForJobClientMatch(t *testing.T) {
	t.Run("enforced rejects foreign payer", func(t *testing.T) {
		store := payableStore()
		store.addProfile(3, "500", model.ProfileRoleClient)
		svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

		_, err := svc.PayForJob(context.Background(), 100, 3)
		if !errors.Is(err, ErrNotContractClient) {
			t.Fatalf("err = %v, want ErrNotContractClient", err)
		}
		if got := store.balance(3); !got.Equal(decimal.RequireFromString("500")) {
			t.Fatalf("foreign payer balance mutated to %s", got)
		}
	})

	t.Run("disabled trusts payer id", func(t *testing.T) {
		store := payableStore()
		store.addProfile(3, "500", model.ProfileRoleClient)
		svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(false))

		if _, err := svc.PayForJob(context.Background(), 100, 3); err != nil {
			t.Fatalf("PayForJob: %v", err)
		}
		if got := store.balance(3); !got.Equal(decimal.RequireFromString("400")) {
			t.Fatalf("payer balance = %s, want 400", got)
		}
	})
}

func TestPayForJobRollbackOnStorageFault(t *testing.T) {
	store := payableStore()
	store.failMarkJobPaid = errors.New("connection reset")
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	_, err := svc.PayForJob(context.Background(), 100, 1)
	var txErr *TransactionError
	if !errors.As(err, &txErr) {
		t.Fatalf("err = %v, want TransactionError", err)
	}
	if got := store.balance(1); !got.Equal(decimal.RequireFromString("200")) {
		t.Fatalf("payer balance = %s after rollback, want 200", got)
	}
	if got := store.balance(2); !got.Equal(decimal.RequireFromString("50")) {
		t.Fatalf("contractor balance = %s after rollback, want 50", got)
	}
	if store.jobs[100].IsPaid {
		t.Fatal("job paid after rollback")
	}
}

func TestPayForJobConcurrentAttemptsSerialize(t *testing.T) {
	store := payableStore()
	svc := NewJobService(store, &fakeJobStore{}, fakeReceiptGenerator{}, testConfig(true))

	results := make([]error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.PayForJob(context.Background(), 100, 1)
		}(i)
	}
	wg.Wait()

	var successes, alreadyPaid int
	for _, err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrJobNotFound):
			alreadyPaid++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || alreadyPaid != 1 {
		t.Fatalf("successes = %d, already-paid = %d; want exactly one of each", successes, alreadyPaid)
	}
	if got := store.balance(1); !got.Equal(decimal.RequireFromString("100")) {
		t.Fatalf("payer balance = %s, want 100 (paid exactly once)", got)
	}
	if got := store.balance(2); !got.Equal(decimal.RequireFromString("150")) {
		t.Fatalf("contractor balance = %s, want 150 (paid exactly once)", got)
	}
}

func TestReceipt(t *testing.T) {
	doc := &model.ReceiptDocument{
		Job:        model.Job{ID: 100, IsPaid: true},
		Client:     model.Profile{ID: 1},
		Contractor: model.Profile{ID: 2},
	}

	t.Run("party gets pdf", func(t *testing.T) {
		svc := NewJobService(newFakeStore(), &fakeJobStore{receipt: doc}, fakeReceiptGenerator{}, testConfig(true))
		name, content, err := svc.Receipt(context.Background(), 100, 1)
		if err != nil {
			t.Fatalf("Receipt: %v", err)
		}
		if name == "" || len(content) == 0 {
			t.Fatal("empty receipt")
		}
	})

	t.Run("non-party denied", func(t *testing.T) {
		svc := NewJobService(newFakeStore(), &fakeJobStore{receipt: doc}, fakeReceiptGenerator{}, testConfig(true))
		_, _, err := svc.Receipt(context.Background(), 100, 9)
		if !errors.Is(err, ErrPermissionDenied) {
			t.Fatalf("err = %v, want ErrPermissionDenied", err)
		}
	})

	t.Run("unpaid job has no receipt", func(t *testing.T) {
		unpaid := &model.ReceiptDocument{
			Job:    model.Job{ID: 100, IsPaid: false},
			Client: model.Profile{ID: 1},
		}
		svc := NewJobService(newFakeStore(), &fakeJobStore{receipt: unpaid}, fakeReceiptGenerator{}, testConfig(true))
		_, _, err := svc.Receipt(context.Background(), 100, 1)
		if !errors.Is(err, ErrJobNotFound) {
			t.Fatalf("err = %v, want ErrJobNotFound", err)
		}
	})
}
