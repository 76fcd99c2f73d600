package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	claim "zenith/internal/claim/models"
	"zenith/internal/platform/logger"
	platformmetrics "zenith/internal/platform/metrics"
	registry "zenith/internal/registry/models"
	"zenith/internal/territory/catalog"
	"zenith/internal/wizard"
	"zenith/internal/wizard/fields"
	"zenith/internal/wizard/mocks"
	dErrors "zenith/pkg/domain-errors"
)

type fakeTaken struct {
	mu    sync.Mutex
	gate  chan struct{}
	taken registry.TakenSet
	err   error
	calls int
}

func (f *fakeTaken) CachedTakenRegions(ctx context.Context) (registry.TakenSet, error) {
	f.mu.Lock()
	gate := f.gate
	f.calls++
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.taken, f.err
}

func (f *fakeTaken) set(taken registry.TakenSet, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.taken, f.err = taken, err
}

type ManagerSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	submitter *mocks.MockSubmitter
	taken     *fakeTaken
	metrics   *platformmetrics.Metrics
	catalog   *catalog.Catalog
	m         *Manager
	ctx       context.Context
}

func TestManagerSuite(t *testing.T) {
	suite.Run(t, new(ManagerSuite))
}

func (s *ManagerSuite) SetupSuite() {
	c, err := catalog.Load()
	s.Require().NoError(err)
	s.catalog = c
}

func (s *ManagerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.submitter = mocks.NewMockSubmitter(s.ctrl)
	s.taken = &fakeTaken{taken: registry.NewTakenSet()}
	s.metrics = platformmetrics.NewWithRegisterer(prometheus.NewRegistry())
	s.ctx = context.Background()
	s.m = s.newManager()
}

func (s *ManagerSuite) TearDownTest() {
	s.m.Shutdown()
}

func (s *ManagerSuite) newManager(opts ...Option) *Manager {
	base := []Option{
		WithLogger(logger.Discard()),
		WithMetrics(s.metrics),
		WithTakenTimeout(time.Second),
	}
	return NewManager(s.catalog, s.taken, s.submitter, append(base, opts...)...)
}

// toRegions drives a fresh session to the open region sub-flow.
func (s *ManagerSuite) toRegions() uuid.UUID {
	v, err := s.m.Open(s.ctx, "desktop")
	s.Require().NoError(err)
	id := v.ID
	for _, in := range []wizard.Input{{}, {ProjectType: fields.ProjectBlockchain}, {Kind: "evm"}} {
		_, err = s.m.Next(s.ctx, id, in)
		s.Require().NoError(err)
	}
	_, err = s.m.OpenRegions(s.ctx, id)
	s.Require().NoError(err)
	return id
}

func (s *ManagerSuite) waitLoaded(id uuid.UUID) View {
	var v View
	s.Require().Eventually(func() bool {
		var err error
		v, err = s.m.View(s.ctx, id)
		return err == nil && v.TakenLoaded
	}, 2*time.Second, 5*time.Millisecond)
	return v
}

func (s *ManagerSuite) TestLifecycle() {
	v, err := s.m.Open(s.ctx, "mobile")
	s.Require().NoError(err)
	s.Equal(wizard.StepIntro, v.Wizard.Step)
	s.Equal("mobile", v.Platform)
	s.True(s.m.IsOpen(v.ID))
	s.Equal(1, s.m.Len())
	s.Equal(1.0, testutil.ToFloat64(s.metrics.OpenSessions))

	s.Require().NoError(s.m.Close(v.ID, ReasonClosed))
	s.False(s.m.IsOpen(v.ID))
	s.Equal(0.0, testutil.ToFloat64(s.metrics.OpenSessions))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionsClosed.WithLabelValues(ReasonClosed)))

	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(s.m.Close(v.ID, ReasonClosed)))
	_, err = s.m.View(s.ctx, v.ID)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ManagerSuite) TestIdleSessionsExpire() {
	m := s.newManager(WithIdleTimeout(20 * time.Millisecond))
	v, err := m.Open(s.ctx, "")
	s.Require().NoError(err)

	s.Eventually(func() bool { return !m.IsOpen(v.ID) }, time.Second, 5*time.Millisecond)
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionsClosed.WithLabelValues(ReasonIdle)))
}

func (s *ManagerSuite) TestMaxSessions() {
	m := s.newManager(WithMaxSessions(1))
	defer m.Shutdown()
	_, err := m.Open(s.ctx, "")
	s.Require().NoError(err)
	_, err = m.Open(s.ctx, "")
	s.Equal(dErrors.CodeConflict, dErrors.CodeOf(err))
}

func (s *ManagerSuite) TestToggleRequiresOpenRegions() {
	v, err := s.m.Open(s.ctx, "")
	s.Require().NoError(err)
	_, _, err = s.m.Toggle(s.ctx, v.ID, "Chad")
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
	_, err = s.m.ResetSelection(s.ctx, v.ID)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
}

func (s *ManagerSuite) TestTogglesQueuedUntilTakenLoads() {
	gate := make(chan struct{})
	s.taken.gate = gate
	s.taken.set(registry.NewTakenSet("Poland"), nil)
	id := s.toRegions()

	v, res, err := s.m.Toggle(s.ctx, id, "Germany")
	s.Require().NoError(err)
	s.True(res.Queued)
	s.Equal([]string{"Germany"}, v.Pending)
	s.Empty(v.Selection)

	close(gate)
	v = s.waitLoaded(id)
	s.Equal([]string{"Germany"}, v.Payload.Regions)
	s.Empty(v.Pending)
	s.Equal([]string{"Germany"}, v.Wizard.Payload.Regions)

	_, _, err = s.m.Toggle(s.ctx, id, "Poland")
	s.Equal(dErrors.CodeRegionUnavailable, dErrors.CodeOf(err))
}

func (s *ManagerSuite) TestTakenReadFailureIsReported() {
	s.taken.set(nil, errors.New("registry down"))
	id := s.toRegions()

	_, _, err := s.m.Toggle(s.ctx, id, "Chad")
	s.Require().NoError(err)

	var v View
	s.Require().Eventually(func() bool {
		v, err = s.m.View(s.ctx, id)
		return err == nil && v.TakenError != ""
	}, 2*time.Second, 5*time.Millisecond)
	s.False(v.TakenLoaded)
	s.Equal([]string{"Chad"}, v.Pending)

	s.taken.set(registry.NewTakenSet(), nil)
	_, err = s.m.RefreshTaken(s.ctx, id)
	s.Require().NoError(err)
	v = s.waitLoaded(id)
	s.Empty(v.TakenError)
	s.Equal([]string{"Chad"}, v.Payload.Regions)
}

func (s *ManagerSuite) TestFlagClearsAfterWindow() {
	s.m = s.newManager(WithFlagWindow(40 * time.Millisecond))
	id := s.toRegions()
	s.waitLoaded(id)

	_, _, err := s.m.Toggle(s.ctx, id, "Russia")
	s.Require().NoError(err)
	v, _, err := s.m.Toggle(s.ctx, id, "China")
	s.Equal(dErrors.CodeSovereignExclusivity, dErrors.CodeOf(err))
	s.Require().NotNil(v.Flag)
	s.Equal("China", v.Flag.Region)
	s.Equal([]string{"Russia"}, v.Payload.Regions)

	s.Eventually(func() bool {
		v, err := s.m.View(s.ctx, id)
		return err == nil && v.Flag == nil
	}, time.Second, 5*time.Millisecond)
}

func (s *ManagerSuite) TestConcurrentTogglesAreSerialized() {
	id := s.toRegions()
	s.waitLoaded(id)

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := s.m.Toggle(s.ctx, id, "Chad")
			s.NoError(err)
		}()
	}
	wg.Wait()

	v, err := s.m.View(s.ctx, id)
	s.Require().NoError(err)
	s.Empty(v.Selection)
	s.Zero(v.Payload.TotalArea)
}

func blockchainForm() fields.Values {
	return fields.Values{
		"name":        "Zenith Chain",
		"logo":        map[string]any{"cid": "bafy", "content_type": "image/png", "size": float64(1024)},
		"about":       strings.Repeat("Claims on a shared map. ", 3),
		"layerType":   "Layer 2",
		"consensus":   "Proof of Stake",
		"tps":         "100",
		"blockTime":   "2",
		"nativeToken": "zen",
		"themeColor":  "#abcdef",
	}
}

func (s *ManagerSuite) TestClaimFlow() {
	id := s.toRegions()
	s.waitLoaded(id)

	for _, name := range []string{"Germany", "Poland"} {
		_, _, err := s.m.Toggle(s.ctx, id, name)
		s.Require().NoError(err)
	}
	_, err := s.m.Back(s.ctx, id)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
	_, err = s.m.CloseRegions(s.ctx, id)
	s.Require().NoError(err)

	v, err := s.m.Next(s.ctx, id, wizard.Input{Fields: blockchainForm()})
	s.Require().NoError(err)
	s.Equal(wizard.StepConfirm, v.Wizard.Step)

	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub claim.Submission) (claim.Receipt, error) {
			s.Equal([]string{"Germany", "Poland"}, sub.Payload.Regions)
			s.Equal(652_927.0, sub.Payload.TotalArea)
			s.Equal(id, sub.SessionID)
			return claim.Receipt{TxHash: "0xabc"}, nil
		})
	v, err = s.m.Next(s.ctx, id, wizard.Input{})
	s.Require().NoError(err)
	s.Equal(wizard.StepSubmitted, v.Wizard.Step)
	s.Equal("0xabc", v.Wizard.Receipt.TxHash)

	s.False(s.m.IsOpen(id))
	s.Equal(1.0, testutil.ToFloat64(s.metrics.SessionsClosed.WithLabelValues(ReasonSubmitted)))
	_, err = s.m.View(s.ctx, id)
	s.Equal(dErrors.CodeNotFound, dErrors.CodeOf(err))
}

func (s *ManagerSuite) TestFailedSubmissionKeepsSession() {
	id := s.toRegions()
	s.waitLoaded(id)
	_, _, err := s.m.Toggle(s.ctx, id, "Chad")
	s.Require().NoError(err)
	_, err = s.m.CloseRegions(s.ctx, id)
	s.Require().NoError(err)
	_, err = s.m.Next(s.ctx, id, wizard.Input{Fields: blockchainForm()})
	s.Require().NoError(err)

	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).
		Return(claim.Receipt{}, dErrors.New(dErrors.CodeRegionUnavailable, "Chad is taken"))
	v, err := s.m.Next(s.ctx, id, wizard.Input{})
	s.Equal(dErrors.CodeRegionUnavailable, dErrors.CodeOf(err))
	s.Equal(wizard.StepConfirm, v.Wizard.Step)
	s.True(s.m.IsOpen(id))
}

func (s *ManagerSuite) TestProjectTypeDetourKeepsSelection() {
	id := s.toRegions()
	s.waitLoaded(id)
	_, _, err := s.m.Toggle(s.ctx, id, "Germany")
	s.Require().NoError(err)
	_, err = s.m.CloseRegions(s.ctx, id)
	s.Require().NoError(err)

	for i := 0; i < 2; i++ {
		_, err = s.m.Back(s.ctx, id)
		s.Require().NoError(err)
	}
	_, err = s.m.Next(s.ctx, id, wizard.Input{ProjectType: fields.ProjectDeFi})
	s.Require().NoError(err)
	_, err = s.m.Back(s.ctx, id)
	s.Require().NoError(err)
	_, err = s.m.Next(s.ctx, id, wizard.Input{ProjectType: fields.ProjectBlockchain})
	s.Require().NoError(err)
	v, err := s.m.Next(s.ctx, id, wizard.Input{Kind: "evm"})
	s.Require().NoError(err)

	s.Equal(wizard.StepForm, v.Wizard.Step)
	s.Equal([]string{"Germany"}, v.Payload.Regions)
	s.Equal(v.Payload, v.Wizard.Payload)

	v, err = s.m.Next(s.ctx, id, wizard.Input{Fields: blockchainForm()})
	s.Require().NoError(err)
	s.Equal(wizard.StepConfirm, v.Wizard.Step)
}

func (s *ManagerSuite) TestToggleAbandonedByCallerStillApplies() {
	id := s.toRegions()
	s.waitLoaded(id)

	a, err := s.m.get(id)
	s.Require().NoError(err)
	release := make(chan struct{})
	a.enqueue(func(*actor) { <-release })

	ctx, cancel := context.WithTimeout(s.ctx, 20*time.Millisecond)
	defer cancel()
	_, res, err := s.m.Toggle(ctx, id, "Chad")
	s.ErrorIs(err, context.DeadlineExceeded)
	s.False(res.Committed)

	close(release)
	s.Eventually(func() bool {
		v, err := s.m.View(s.ctx, id)
		return err == nil && len(v.Payload.Regions) == 1 && v.Payload.Regions[0] == "Chad"
	}, time.Second, 5*time.Millisecond)
}
