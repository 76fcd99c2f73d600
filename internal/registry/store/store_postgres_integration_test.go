//go:build integration

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"zenith/pkg/testutil/containers"
)

type PostgresLedgerSuite struct {
	ledgerContract
	postgres *containers.PostgresContainer
}

func TestPostgresLedgerSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresLedgerSuite))
}

func (s *PostgresLedgerSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.postgres = mgr.GetPostgres(s.T())
	s.Require().NoError(Migrate(context.Background(), s.postgres.DB))
}

func (s *PostgresLedgerSuite) SetupTest() {
	err := s.postgres.TruncateTables(context.Background(), "claimed_regions", "projects")
	s.Require().NoError(err)
	s.ledger = NewPostgresLedger(s.postgres.DB)
}

func (s *PostgresLedgerSuite) TestMigrateIsIdempotent() {
	s.Require().NoError(Migrate(context.Background(), s.postgres.DB))
}

func (s *PostgresLedgerSuite) TestRegionKeysStored() {
	ctx := context.Background()
	p := project("Keys", "Chad")
	s.Require().NoError(s.ledger.Record(ctx, p))

	var key string
	err := s.postgres.DB.QueryRowContext(ctx, `SELECT region_key FROM claimed_regions WHERE region = $1`, "Chad").Scan(&key)
	s.Require().NoError(err)
	s.Len(key, 66)
}
