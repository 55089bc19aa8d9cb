package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/alnahda/institute-ledger/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every PostgreSQL repository onto one pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		SequenceRepo:   newPgxSequenceRepository(pool),
		AccountRepo:    newPgxAccountRepository(pool),
		JournalRepo:    newPgxJournalRepository(pool),
		CostCenterRepo: newPgxCostCenterRepository(pool),
		SchoolRepo:     newPgxSchoolRepository(pool),
		DocumentRepo:   newPgxDocumentRepository(pool),
		PayrollRepo:    newPgxPayrollRepository(pool),
		UserRepo:       newPgxUserRepository(pool),
	}
}
