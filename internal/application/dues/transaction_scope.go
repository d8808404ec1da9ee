package dues

import (
	"context"

	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
)

// TransactionScope provides transactional access to the repositories the
// dues services touch together. When a function is executed within a
// transaction scope, all repository operations are part of the same
// database transaction and commit or roll back atomically.
//
// Batch creation and batch deletion run inside a scope: the batch header,
// its child due records and the member balance adjustments must land (or
// vanish) together. Single-record edits deliberately do NOT use a scope;
// see BatchEditorService.UpdateChildRecord.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories within a
// transaction. All repositories returned share the same underlying
// database transaction.
type TransactionalRepositories interface {
	// Members returns the member repository scoped to the current transaction
	Members() member.Repository
	// DueRecords returns the due record repository scoped to the current transaction
	DueRecords() dues.DueRecordRepository
	// Batches returns the batch repository scoped to the current transaction
	Batches() dues.BatchRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing.
type NoOpTransactionScope struct {
	memberRepo member.Repository
	dueRepo    dues.DueRecordRepository
	batchRepo  dues.BatchRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope over the given repositories.
func NewNoOpTransactionScope(
	memberRepo member.Repository,
	dueRepo dues.DueRecordRepository,
	batchRepo dues.BatchRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		memberRepo: memberRepo,
		dueRepo:    dueRepo,
		batchRepo:  batchRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Members returns the member repository.
func (s *NoOpTransactionScope) Members() member.Repository {
	return s.memberRepo
}

// DueRecords returns the due record repository.
func (s *NoOpTransactionScope) DueRecords() dues.DueRecordRepository {
	return s.dueRepo
}

// Batches returns the batch repository.
func (s *NoOpTransactionScope) Batches() dues.BatchRepository {
	return s.batchRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
