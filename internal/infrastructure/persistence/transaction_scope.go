package persistence

import (
	"context"

	appdues "github.com/asociacion/backend/internal/application/dues"
	"github.com/asociacion/backend/internal/domain/dues"
	"github.com/asociacion/backend/internal/domain/member"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appdues.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Members returns the member repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Members() member.Repository {
	return NewGormMemberRepository(r.tx)
}

// DueRecords returns the due record repository scoped to the current transaction.
func (r *gormTransactionalRepositories) DueRecords() dues.DueRecordRepository {
	return NewGormDueRecordRepository(r.tx)
}

// Batches returns the batch repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Batches() dues.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appdues.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appdues.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
