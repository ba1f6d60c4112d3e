package repository

import "context"

// RepositoryFactory creates repository instances bound to a single
// transaction. Only the repositories touched by multi-write flows appear
// here; single-statement operations use the direct repositories.
type RepositoryFactory interface {
	UserRepo() UserRepository
	LoginTokenRepo() LoginTokenRepository
	AuthLogRepo() AuthLogRepository
}

// TransactionManager runs a function within one database transaction.
type TransactionManager interface {
	Execute(ctx context.Context, fn func(repoFactory RepositoryFactory) error) error
}
