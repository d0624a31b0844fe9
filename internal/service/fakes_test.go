package service

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/nurpe/contracts-billing/internal/model"
)

// fakeStore is an in-memory TxRunner + backing state. RunInTx holds one
// mutex for the whole unit of work, which gives the same serialization a
// row lock gives on the real store, and restores a snapshot on error so
// rollback semantics hold.
type fakeStore struct {
	mu        sync.Mutex
	profiles  map[int64]*model.Profile
	contracts map[int64]*model.Contract
	jobs      map[int64]*model.Job

	failUpdateBalance error
	failMarkJobPaid   error
	failSum           error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		profiles:  make(map[int64]*model.Profile),
		contracts: make(map[int64]*model.Contract),
		jobs:      make(map[int64]*model.Job),
	}
}

func (f *fakeStore) addProfile(id int64, balance string, role model.ProfileRole) {
	f.profiles[id] = &model.Profile{
		ID:      id,
		Balance: decimal.RequireFromString(balance),
		Role:    role,
	}
}

func (f *fakeStore) addContract(id int64, clientID, contractorID *int64, status model.ContractStatus) {
	f.contracts[id] = &model.Contract{
		ID:           id,
		Status:       status,
		ClientID:     clientID,
		ContractorID: contractorID,
	}
}

func (f *fakeStore) addJob(id, contractID int64, price string, isPaid bool) {
	f.jobs[id] = &model.Job{
		ID:         id,
		ContractID: contractID,
		Price:      decimal.RequireFromString(price),
		IsPaid:     isPaid,
	}
}

func (f *fakeStore) balance(id int64) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.profiles[id].Balance
}

func (f *fakeStore) RunInTx(ctx context.Context, fn func(tx TxStore) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	profiles, jobs := f.snapshot()
	if err := fn(&fakeTx{store: f}); err != nil {
		f.profiles, f.jobs = profiles, jobs
		return err
	}
	return nil
}

func (f *fakeStore) snapshot() (map[int64]*model.Profile, map[int64]*model.Job) {
	profiles := make(map[int64]*model.Profile, len(f.profiles))
	for id, p := range f.profiles {
		copied := *p
		profiles[id] = &copied
	}
	jobs := make(map[int64]*model.Job, len(f.jobs))
	for id, j := range f.jobs {
		copied := *j
		jobs[id] = &copied
	}
	return profiles, jobs
}

// fakeTx hands out copies so nothing mutates the store without an explicit
// save, mirroring the real repository.
type fakeTx struct {
	store *fakeStore
}

func (t *fakeTx) GetProfileForUpdate(ctx context.Context, id int64) (*model.Profile, error) {
	profile, ok := t.store.profiles[id]
	if !ok {
		return nil, nil
	}
	copied := *profile
	return &copied, nil
}

func (t *fakeTx) GetProfilesForUpdate(ctx context.Context, ids []int64) (map[int64]*model.Profile, error) {
	result := make(map[int64]*model.Profile)
	for _, id := range ids {
		if profile, ok := t.store.profiles[id]; ok {
			copied := *profile
			result[id] = &copied
		}
	}
	return result, nil
}

func (t *fakeTx) GetJobForUpdate(ctx context.Context, id int64) (*model.Job, error) {
	job, ok := t.store.jobs[id]
	if !ok {
		return nil, nil
	}
	copied := *job
	return &copied, nil
}

func (t *fakeTx) GetContractWithParties(ctx context.Context, id int64) (*model.Contract, error) {
	contract, ok := t.store.contracts[id]
	if !ok {
		return nil, nil
	}
	copied := *contract
	return &copied, nil
}

func (t *fakeTx) SumOutstandingUnpaid(ctx context.Context, clientID int64) (decimal.Decimal, error) {
	if t.store.failSum != nil {
		return decimal.Zero, t.store.failSum
	}
	total := decimal.Zero
	for _, job := range t.store.jobs {
		if job.IsPaid {
			continue
		}
		contract, ok := t.store.contracts[job.ContractID]
		if !ok || contract.ClientID == nil || *contract.ClientID != clientID {
			continue
		}
		total = total.Add(job.Price)
	}
	return total, nil
}

func (t *fakeTx) UpdateProfileBalance(ctx context.Context, profile *model.Profile) error {
	if t.store.failUpdateBalance != nil {
		return t.store.failUpdateBalance
	}
	copied := *profile
	t.store.profiles[profile.ID] = &copied
	return nil
}

func (t *fakeTx) MarkJobPaid(ctx context.Context, job *model.Job) error {
	if t.store.failMarkJobPaid != nil {
		return t.store.failMarkJobPaid
	}
	copied := *job
	t.store.jobs[job.ID] = &copied
	return nil
}

var _ TxRunner = (*fakeStore)(nil)
var _ TxStore = (*fakeTx)(nil)

// fakeJobStore backs the read-side job operations.
type fakeJobStore struct {
	unpaid  []model.Job
	receipt *model.ReceiptDocument
}

func (f *fakeJobStore) ListUnpaidForProfile(ctx context.Context, profileID int64) ([]model.Job, error) {
	return f.unpaid, nil
}

func (f *fakeJobStore) GetJobWithParties(ctx context.Context, jobID int64) (*model.ReceiptDocument, error) {
	return f.receipt, nil
}

type fakeProfileStore struct {
	store *fakeStore
}

func (f *fakeProfileStore) GetProfile(ctx context.Context, id int64) (*model.Profile, error) {
	return (&fakeTx{store: f.store}).GetProfileForUpdate(ctx, id)
}

type fakeReceiptGenerator struct{}

func (fakeReceiptGenerator) Generate(doc model.ReceiptDocument) ([]byte, error) {
	return []byte("%PDF-fake"), nil
}
