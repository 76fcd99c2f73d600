package store

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"zenith/internal/registry/models"
	"zenith/pkg/platform/sentinel"
)

// ledgerContract holds behaviour every Ledger must satisfy. Concrete suites
// embed it and set ledger in SetupTest.
type ledgerContract struct {
	suite.Suite
	ledger Ledger
}

func project(name string, regions ...string) models.Project {
	return models.Project{
		ClaimID:     uuid.New(),
		Name:        name,
		ProjectType: "Blockchain",
		Regions:     regions,
		PriceWei:    "1000",
		RecordedAt:  time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func (s *ledgerContract) TestRecordAndRead() {
	ctx := context.Background()
	p := project("Zenith L2", "Germany", "Poland")

	s.Require().NoError(s.ledger.Record(ctx, p))

	taken, err := s.ledger.Taken(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Germany", "Poland"}, taken)

	got, err := s.ledger.Get(ctx, "Zenith L2")
	s.Require().NoError(err)
	s.Equal(p.ClaimID, got.ClaimID)
	s.ElementsMatch(p.Regions, got.Regions)
	s.Equal("1000", got.PriceWei)
	s.True(p.RecordedAt.Equal(got.RecordedAt))
}

func (s *ledgerContract) TestRegionConflictIsAllOrNothing() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Record(ctx, project("First", "Luxembourg")))

	err := s.ledger.Record(ctx, project("Second", "Peru", "Luxembourg"))
	s.Require().Error(err)
	s.True(errors.Is(err, sentinel.ErrConflict))

	var conflict *ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal([]string{"Luxembourg"}, conflict.Regions)

	taken, err := s.ledger.Taken(ctx)
	s.Require().NoError(err)
	s.Equal([]string{"Luxembourg"}, taken, "no partial claim of Peru")

	_, err = s.ledger.Get(ctx, "Second")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ledgerContract) TestDuplicateName() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Record(ctx, project("Zenith", "Chad")))

	err := s.ledger.Record(ctx, project("Zenith", "Peru"))
	var conflict *ConflictError
	s.Require().ErrorAs(err, &conflict)
	s.Equal("Zenith", conflict.NameTaken)
}

func (s *ledgerContract) TestProjectWithoutRegions() {
	ctx := context.Background()
	s.Require().NoError(s.ledger.Record(ctx, project("Oracle Net")))

	got, err := s.ledger.Get(ctx, "Oracle Net")
	s.Require().NoError(err)
	s.Empty(got.Regions)

	list, err := s.ledger.List(ctx)
	s.Require().NoError(err)
	s.Len(list, 1)
}

func (s *ledgerContract) TestConcurrentClaimsOnSameRegion() {
	ctx := context.Background()
	const claimants = 20

	var wg sync.WaitGroup
	var recorded atomic.Int32
	for i := 0; i < claimants; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			err := s.ledger.Record(ctx, project(uuid.NewString(), "France"))
			if err == nil {
				recorded.Add(1)
				return
			}
			s.True(errors.Is(err, sentinel.ErrConflict), "unexpected error: %v", err)
		}(i)
	}
	wg.Wait()

	s.Equal(int32(1), recorded.Load(), "exactly one claimant wins")
}
