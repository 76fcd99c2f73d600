package store

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type InMemoryLedgerSuite struct {
	ledgerContract
}

func TestInMemoryLedgerSuite(t *testing.T) {
	suite.Run(t, new(InMemoryLedgerSuite))
}

func (s *InMemoryLedgerSuite) SetupTest() {
	s.ledger = NewInMemoryLedger()
}

func (s *InMemoryLedgerSuite) TestRecordCopiesRegions() {
	p := project("Copy", "Chad")
	s.Require().NoError(s.ledger.Record(s.T().Context(), p))
	p.Regions[0] = "Peru"

	got, err := s.ledger.Get(s.T().Context(), "Copy")
	s.Require().NoError(err)
	s.Equal([]string{"Chad"}, got.Regions)
}
