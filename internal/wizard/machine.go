// Package wizard sequences the registration steps and decides when the form
// may advance to confirmation and submission.
//
// Machine is not safe for concurrent use; a session actor owns it.
package wizard

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	claim "zenith/internal/claim/models"
	territory "zenith/internal/territory/models"
	"zenith/internal/wizard/fields"
	dErrors "zenith/pkg/domain-errors"
)

// Step is a wizard screen.
type Step string

const (
	StepIntro          Step = "intro"
	StepProjectType    Step = "project_type"
	StepBlockchainKind Step = "blockchain_kind"
	StepChainFixed     Step = "chain_fixed"
	StepForm           Step = "form"
	StepConfirm        Step = "confirm"
	StepSubmitted      Step = "submitted"
)

// DefaultChain is used by every non-Blockchain project.
const DefaultChain = "Base"

// BlockchainKinds are the chain choices for Blockchain projects.
var BlockchainKinds = []string{"evm", "non-evm"}

// Submitter performs the claim at Confirm.
type Submitter interface {
	Submit(ctx context.Context, s claim.Submission) (claim.Receipt, error)
}

// Input carries the data a step needs to advance. Only the member relevant
// to the current step is read.
type Input struct {
	ProjectType string        `json:"project_type,omitempty"`
	Kind        string        `json:"kind,omitempty"`
	Fields      fields.Values `json:"fields,omitempty"`
}

// State is a read-only view of the wizard.
type State struct {
	Step        Step                   `json:"step"`
	Path        []Step                 `json:"path"`
	ProjectType string                 `json:"project_type,omitempty"`
	Chain       string                 `json:"chain,omitempty"`
	Fields      fields.Values          `json:"fields,omitempty"`
	Payload     territory.ClaimPayload `json:"claim_payload"`
	RegionsOpen bool                   `json:"regions_open"`
	Receipt     *claim.Receipt         `json:"receipt,omitempty"`
	LastError   string                 `json:"last_error,omitempty"`
}

// Machine is the registration wizard.
type Machine struct {
	step        Step
	path        []Step
	projectType string
	chain       string
	draft       fields.Values
	validated   fields.Values
	payload     territory.ClaimPayload
	regionsOpen bool
	receipt     *claim.Receipt
	lastErr     error
	sessionID   uuid.UUID
	submitter   Submitter
	logger      *slog.Logger
}

type Option func(*Machine)

func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithSessionID tags submissions with the owning session.
func WithSessionID(id uuid.UUID) Option {
	return func(m *Machine) {
		m.sessionID = id
	}
}

// New starts a wizard at Intro.
func New(submitter Submitter, opts ...Option) *Machine {
	m := &Machine{
		step:      StepIntro,
		submitter: submitter,
		draft:     fields.Values{},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.Default()
	}
	return m
}

func (m *Machine) Step() Step {
	return m.step
}

// State returns a snapshot of the wizard.
func (m *Machine) State() State {
	s := State{
		Step:        m.step,
		Path:        slices.Clone(m.path),
		ProjectType: m.projectType,
		Chain:       m.chain,
		Fields:      cloneValues(m.draft),
		Payload:     m.payload.Clone(),
		RegionsOpen: m.regionsOpen,
	}
	if m.receipt != nil {
		r := *m.receipt
		s.Receipt = &r
	}
	if m.lastErr != nil {
		s.LastError = m.lastErr.Error()
	}
	return s
}

// Next advances from the current step.
func (m *Machine) Next(ctx context.Context, in Input) error {
	switch m.step {
	case StepIntro:
		m.advance(StepProjectType)
	case StepProjectType:
		if !fields.IsProjectType(in.ProjectType) {
			return dErrors.Newf(dErrors.CodeValidation, "unknown project type %q", in.ProjectType)
		}
		if in.ProjectType != m.projectType {
			m.validated = nil
		}
		m.projectType = in.ProjectType
		if in.ProjectType == fields.ProjectBlockchain {
			m.chain = ""
			m.advance(StepBlockchainKind)
		} else {
			m.advance(StepChainFixed)
		}
	case StepBlockchainKind:
		if !slices.Contains(BlockchainKinds, in.Kind) {
			return dErrors.Newf(dErrors.CodeValidation, "unknown blockchain kind %q", in.Kind)
		}
		m.chain = in.Kind
		m.advance(StepForm)
	case StepChainFixed:
		m.chain = DefaultChain
		m.advance(StepForm)
	case StepForm:
		return m.submitForm(in.Fields)
	case StepConfirm:
		return m.confirm(ctx)
	default:
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot advance from %s", m.step)
	}
	return nil
}

func (m *Machine) submitForm(values fields.Values) error {
	if m.regionsOpen {
		return dErrors.New(dErrors.CodeInvalidTransition, "region selection is still open")
	}
	for k, v := range values {
		m.draft[k] = v
	}
	schema, ok := fields.SchemaFor(m.projectType)
	if !ok {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "no form for project type %q", m.projectType)
	}
	candidate := cloneValues(m.draft)
	if schema.RequiresRegions() {
		candidate[fields.RegionsField] = slices.Clone(m.payload.Regions)
	}
	normalized, err := schema.Validate(candidate)
	if err != nil {
		return err
	}
	m.validated = normalized
	m.lastErr = nil
	m.advance(StepConfirm)
	return nil
}

func (m *Machine) confirm(ctx context.Context) error {
	sub := claim.Submission{
		SessionID:   m.sessionID,
		ProjectType: m.projectType,
		Chain:       m.chain,
		Fields:      cloneValues(m.validated),
		Payload:     m.payload.Clone(),
	}
	if m.projectType != fields.ProjectBlockchain {
		sub.Payload = territory.ClaimPayload{}
	}
	receipt, err := m.submitter.Submit(ctx, sub)
	if err != nil {
		m.lastErr = err
		m.logger.WarnContext(ctx, "claim submission failed; staying on confirm",
			"project_type", m.projectType,
			"code", dErrors.CodeOf(err),
			"error", err,
		)
		return err
	}
	m.receipt = &receipt
	m.lastErr = nil
	m.advance(StepSubmitted)
	return nil
}

// Back returns to the step that led here.
func (m *Machine) Back() error {
	if m.step == StepSubmitted {
		return dErrors.New(dErrors.CodeInvalidTransition, "claim already submitted")
	}
	if m.regionsOpen {
		return dErrors.New(dErrors.CodeInvalidTransition, "close region selection first")
	}
	if len(m.path) == 0 {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "cannot go back from %s", m.step)
	}
	m.step = m.path[len(m.path)-1]
	m.path = m.path[:len(m.path)-1]
	m.lastErr = nil
	return nil
}

// OpenRegions starts the region selection sub-flow from the form.
func (m *Machine) OpenRegions() error {
	if m.step != StepForm {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "regions can only be selected from the form, not %s", m.step)
	}
	if m.projectType != fields.ProjectBlockchain {
		return dErrors.Newf(dErrors.CodeInvalidTransition, "%s projects do not claim regions", m.projectType)
	}
	m.regionsOpen = true
	return nil
}

// CloseRegions ends the sub-flow, keeping the last payload received.
func (m *Machine) CloseRegions() error {
	if !m.regionsOpen {
		return dErrors.New(dErrors.CodeInvalidTransition, "region selection is not open")
	}
	m.regionsOpen = false
	return nil
}

// RegionsOpen reports whether the sub-flow is open.
func (m *Machine) RegionsOpen() bool {
	return m.regionsOpen
}

// ReceivePayload stores the latest payload from the selection controller.
func (m *Machine) ReceivePayload(p territory.ClaimPayload) {
	m.payload = p.Clone()
}

// Payload returns the last payload received.
func (m *Machine) Payload() territory.ClaimPayload {
	return m.payload.Clone()
}

func (m *Machine) advance(next Step) {
	m.path = append(m.path, m.step)
	m.step = next
}

func cloneValues(v fields.Values) fields.Values {
	out := make(fields.Values, len(v))
	for k, val := range v {
		out[k] = val
	}
	return out
}
