package wizard

//go:generate mockgen -source=machine.go -destination=mocks/mocks.go -package=mocks Submitter

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	claim "zenith/internal/claim/models"
	"zenith/internal/platform/logger"
	territory "zenith/internal/territory/models"
	"zenith/internal/wizard/fields"
	"zenith/internal/wizard/mocks"
	dErrors "zenith/pkg/domain-errors"
)

type MachineSuite struct {
	suite.Suite
	ctrl      *gomock.Controller
	submitter *mocks.MockSubmitter
	m         *Machine
	ctx       context.Context
}

func TestMachineSuite(t *testing.T) {
	suite.Run(t, new(MachineSuite))
}

func (s *MachineSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.submitter = mocks.NewMockSubmitter(s.ctrl)
	s.m = New(s.submitter, WithLogger(logger.Discard()))
	s.ctx = context.Background()
}

func (s *MachineSuite) next(in Input) {
	s.Require().NoError(s.m.Next(s.ctx, in))
}

func baseFields() fields.Values {
	return fields.Values{
		"name":  "Zenith Chain",
		"logo":  map[string]any{"cid": "bafy", "content_type": "image/png", "size": float64(4096)},
		"about": strings.Repeat("Territory claims on a shared map. ", 2),
	}
}

func blockchainFields() fields.Values {
	v := baseFields()
	v["layerType"] = "Layer 1"
	v["consensus"] = "Proof of Stake"
	v["tps"] = "4000"
	v["blockTime"] = "2"
	v["nativeToken"] = "zen"
	v["themeColor"] = "#ff0000"
	return v
}

var germanyPoland = territory.ClaimPayload{
	Regions:    []string{"Germany", "Poland"},
	TotalArea:  652_927,
	TotalPrice: 652_927.0 / 1_000_000 * 0.4,
}

func (s *MachineSuite) toForm(projectType string) {
	s.next(Input{})
	s.next(Input{ProjectType: projectType})
	if projectType == fields.ProjectBlockchain {
		s.next(Input{Kind: "evm"})
	} else {
		s.next(Input{})
	}
	s.Require().Equal(StepForm, s.m.Step())
}

func (s *MachineSuite) TestBranching() {
	s.Run("blockchain goes through kind selection", func() {
		s.SetupTest()
		s.next(Input{})
		s.next(Input{ProjectType: fields.ProjectBlockchain})
		s.Equal(StepBlockchainKind, s.m.Step())
		s.next(Input{Kind: "non-evm"})
		s.Equal(StepForm, s.m.Step())
		s.Equal("non-evm", s.m.State().Chain)
	})

	s.Run("other types use the fixed chain", func() {
		s.SetupTest()
		s.next(Input{})
		s.next(Input{ProjectType: fields.ProjectDeFi})
		s.Equal(StepChainFixed, s.m.Step())
		s.next(Input{})
		s.Equal(StepForm, s.m.Step())
		s.Equal(DefaultChain, s.m.State().Chain)
	})

	s.Run("unknown project type stays put", func() {
		s.SetupTest()
		s.next(Input{})
		err := s.m.Next(s.ctx, Input{ProjectType: "Casino"})
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		s.Equal(StepProjectType, s.m.Step())
	})

	s.Run("unknown blockchain kind stays put", func() {
		s.SetupTest()
		s.next(Input{})
		s.next(Input{ProjectType: fields.ProjectBlockchain})
		err := s.m.Next(s.ctx, Input{Kind: "solana-vm"})
		s.Equal(dErrors.CodeValidation, dErrors.CodeOf(err))
		s.Equal(StepBlockchainKind, s.m.Step())
	})
}

func (s *MachineSuite) TestBackFollowsPathTaken() {
	s.Run("blockchain", func() {
		s.SetupTest()
		s.toForm(fields.ProjectBlockchain)
		s.Require().NoError(s.m.Back())
		s.Equal(StepBlockchainKind, s.m.Step())
		s.Require().NoError(s.m.Back())
		s.Equal(StepProjectType, s.m.Step())
		s.Require().NoError(s.m.Back())
		s.Equal(StepIntro, s.m.Step())
		s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(s.m.Back()))
	})

	s.Run("fixed chain", func() {
		s.SetupTest()
		s.toForm(fields.ProjectNFT)
		s.Require().NoError(s.m.Back())
		s.Equal(StepChainFixed, s.m.Step())
	})

	s.Run("switching type after going back", func() {
		s.SetupTest()
		s.toForm(fields.ProjectBlockchain)
		s.Require().NoError(s.m.Back())
		s.Require().NoError(s.m.Back())
		s.next(Input{ProjectType: fields.ProjectOracle})
		s.next(Input{})
		s.Require().NoError(s.m.Back())
		s.Equal(StepChainFixed, s.m.Step())
		s.Equal([]Step{StepIntro, StepProjectType}, s.m.State().Path)
	})
}

func (s *MachineSuite) TestFormBlockedUntilRegionsSelected() {
	s.toForm(fields.ProjectBlockchain)

	err := s.m.Next(s.ctx, Input{Fields: blockchainFields()})
	s.Require().Error(err)
	s.Equal(dErrors.CodeFieldValidationFailed, dErrors.CodeOf(err))
	s.Contains(fields.FieldErrors(err), fields.RegionsField)
	s.Equal(StepForm, s.m.Step())

	s.Require().NoError(s.m.OpenRegions())
	s.m.ReceivePayload(germanyPoland)
	err = s.m.Next(s.ctx, Input{})
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(err))
	s.Equal(StepForm, s.m.Step())

	s.Require().NoError(s.m.CloseRegions())
	s.next(Input{})
	s.Equal(StepConfirm, s.m.Step())
}

func (s *MachineSuite) TestFormKeepsDataOnValidationFailure() {
	s.toForm(fields.ProjectDeFi)
	vals := baseFields()
	vals["type"] = "Casino"

	err := s.m.Next(s.ctx, Input{Fields: vals})
	s.Require().Error(err)
	s.Equal("Zenith Chain", s.m.State().Fields["name"])

	s.next(Input{Fields: fields.Values{"type": "DEX"}})
	s.Equal(StepConfirm, s.m.Step())
}

func (s *MachineSuite) TestRegionsOnlyForBlockchain() {
	s.toForm(fields.ProjectDAO)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(s.m.OpenRegions()))
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(s.m.CloseRegions()))
}

func (s *MachineSuite) TestConfirmSubmitsBlockchainClaim() {
	s.toForm(fields.ProjectBlockchain)
	s.Require().NoError(s.m.OpenRegions())
	s.m.ReceivePayload(germanyPoland)
	s.Require().NoError(s.m.CloseRegions())
	s.next(Input{Fields: blockchainFields()})

	receipt := claim.Receipt{ClaimID: uuid.New(), TxHash: "0xabc"}
	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub claim.Submission) (claim.Receipt, error) {
			s.Equal(fields.ProjectBlockchain, sub.ProjectType)
			s.Equal("evm", sub.Chain)
			s.Equal(germanyPoland, sub.Payload)
			s.Equal("ZEN", sub.Fields["nativeToken"])
			s.Equal("Zenith Chain", sub.Name())
			return receipt, nil
		})

	s.next(Input{})
	s.Equal(StepSubmitted, s.m.Step())
	s.Equal(receipt.TxHash, s.m.State().Receipt.TxHash)
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(s.m.Next(s.ctx, Input{})))
	s.Equal(dErrors.CodeInvalidTransition, dErrors.CodeOf(s.m.Back()))
}

func (s *MachineSuite) TestConfirmFailureStaysOnConfirm() {
	s.toForm(fields.ProjectNFT)
	vals := baseFields()
	vals["type"] = "Art"
	s.next(Input{Fields: vals})

	rejected := dErrors.New(dErrors.CodeRegionConflict, "Luxembourg was claimed")
	gomock.InOrder(
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(claim.Receipt{}, rejected),
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).Return(claim.Receipt{TxHash: "0x1"}, nil),
	)

	err := s.m.Next(s.ctx, Input{})
	s.ErrorIs(err, rejected)
	s.Equal(StepConfirm, s.m.Step())
	s.Equal(rejected.Error(), s.m.State().LastError)
	s.Equal("Zenith Chain", s.m.State().Fields["name"])

	s.next(Input{})
	s.Equal(StepSubmitted, s.m.Step())
	s.Empty(s.m.State().LastError)
}

func (s *MachineSuite) TestNonBlockchainSubmitsEmptyPayload() {
	s.toForm(fields.ProjectAI)
	s.next(Input{Fields: baseFields()})

	s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, sub claim.Submission) (claim.Receipt, error) {
			s.True(sub.Payload.IsEmpty())
			s.Equal(DefaultChain, sub.Chain)
			return claim.Receipt{}, nil
		})
	s.next(Input{})
}

func (s *MachineSuite) TestPayloadSurvivesProjectTypeSwitch() {
	s.toForm(fields.ProjectBlockchain)
	s.Require().NoError(s.m.OpenRegions())
	s.m.ReceivePayload(germanyPoland)
	s.Require().NoError(s.m.CloseRegions())

	s.Run("a detour through another type keeps the controller's payload", func() {
		s.Require().NoError(s.m.Back())
		s.Require().NoError(s.m.Back())
		s.next(Input{ProjectType: fields.ProjectDeFi})
		s.Equal(germanyPoland, s.m.Payload())
		s.Require().NoError(s.m.Back())
		s.next(Input{ProjectType: fields.ProjectBlockchain})
		s.next(Input{Kind: "evm"})
		s.Equal(germanyPoland, s.m.Payload())
		s.next(Input{Fields: blockchainFields()})
		s.Equal(StepConfirm, s.m.Step())
	})

	s.Run("non-blockchain claims still submit no regions", func() {
		s.Require().NoError(s.m.Back())
		s.Require().NoError(s.m.Back())
		s.Require().NoError(s.m.Back())
		s.next(Input{ProjectType: fields.ProjectAI})
		s.next(Input{})
		s.next(Input{Fields: baseFields()})
		s.submitter.EXPECT().Submit(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, sub claim.Submission) (claim.Receipt, error) {
				s.True(sub.Payload.IsEmpty())
				return claim.Receipt{}, nil
			})
		s.next(Input{})
		s.Equal(StepSubmitted, s.m.Step())
	})
}
