package wizard

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
	DELETE(path string) error
	Status() int
	Field(path string) (any, error)
	SetSession(id, token string)
	SessionPath(suffix string) string
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &wizardSteps{tc: tc}

	ctx.Step(`^I open a wizard session$`, steps.openSession)
	ctx.Step(`^I close the wizard session$`, steps.closeSession)
	ctx.Step(`^I view the wizard session$`, steps.viewSession)
	ctx.Step(`^I continue$`, steps.next)
	ctx.Step(`^I go back$`, steps.back)
	ctx.Step(`^I choose project type "([^"]*)"$`, steps.chooseProjectType)
	ctx.Step(`^I choose blockchain kind "([^"]*)"$`, steps.chooseKind)
	ctx.Step(`^I open region selection$`, steps.openRegions)
	ctx.Step(`^I close region selection$`, steps.closeRegions)
	ctx.Step(`^the taken regions have loaded$`, steps.waitTakenLoaded)
	ctx.Step(`^I toggle region "([^"]*)"$`, steps.toggle)
	ctx.Step(`^I reset the selection$`, steps.reset)
	ctx.Step(`^the wizard should be at step "([^"]*)"$`, steps.stepShouldBe)
	ctx.Step(`^the selected regions should be "([^"]*)"$`, steps.selectionShouldBe)
}

type wizardSteps struct {
	tc TestContext
}

func (s *wizardSteps) openSession(context.Context) error {
	if err := s.tc.POST("/wizard/sessions", nil); err != nil {
		return err
	}
	id, err := s.tc.Field("session.id")
	if err != nil {
		return err
	}
	token, err := s.tc.Field("session_token")
	if err != nil {
		return err
	}
	s.tc.SetSession(fmt.Sprint(id), fmt.Sprint(token))
	return nil
}

func (s *wizardSteps) closeSession(context.Context) error {
	return s.tc.DELETE(s.tc.SessionPath(""))
}

func (s *wizardSteps) viewSession(context.Context) error {
	return s.tc.GET(s.tc.SessionPath(""))
}

func (s *wizardSteps) next(context.Context) error {
	return s.tc.POST(s.tc.SessionPath("/next"), map[string]any{})
}

func (s *wizardSteps) back(context.Context) error {
	return s.tc.POST(s.tc.SessionPath("/back"), nil)
}

func (s *wizardSteps) chooseProjectType(_ context.Context, projectType string) error {
	return s.tc.POST(s.tc.SessionPath("/next"), map[string]any{"project_type": projectType})
}

func (s *wizardSteps) chooseKind(_ context.Context, kind string) error {
	return s.tc.POST(s.tc.SessionPath("/next"), map[string]any{"kind": kind})
}

func (s *wizardSteps) openRegions(context.Context) error {
	return s.tc.POST(s.tc.SessionPath("/regions/open"), nil)
}

func (s *wizardSteps) closeRegions(context.Context) error {
	return s.tc.POST(s.tc.SessionPath("/regions/close"), nil)
}

func (s *wizardSteps) waitTakenLoaded(context.Context) error {
	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		if err := s.tc.GET(s.tc.SessionPath("")); err != nil {
			return err
		}
		if loaded, err := s.tc.Field("selection.taken_loaded"); err == nil && loaded == true {
			return nil
		}
		if msg, err := s.tc.Field("selection.taken_error"); err == nil {
			return fmt.Errorf("taken regions failed to load: %v", msg)
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("taken regions did not load within 10s")
}

func (s *wizardSteps) toggle(_ context.Context, region string) error {
	return s.tc.POST(s.tc.SessionPath("/regions/toggle"), map[string]any{"name": region})
}

func (s *wizardSteps) reset(context.Context) error {
	return s.tc.POST(s.tc.SessionPath("/regions/reset"), nil)
}

func (s *wizardSteps) stepShouldBe(_ context.Context, step string) error {
	for _, path := range []string{"wizard.step", "session.wizard.step"} {
		if v, err := s.tc.Field(path); err == nil {
			if fmt.Sprint(v) != step {
				return fmt.Errorf("expected step %q, got %q", step, v)
			}
			return nil
		}
	}
	return fmt.Errorf("response has no wizard step")
}

func (s *wizardSteps) selectionShouldBe(_ context.Context, want string) error {
	if err := s.tc.GET(s.tc.SessionPath("")); err != nil {
		return err
	}
	v, err := s.tc.Field("selection.claim_payload.regions")
	if err != nil {
		return err
	}
	items, _ := v.([]any)
	got := make([]string, len(items))
	for i, it := range items {
		got[i] = fmt.Sprint(it)
	}
	if strings.Join(got, ",") != want {
		return fmt.Errorf("expected selection %q, got %q", want, strings.Join(got, ","))
	}
	return nil
}
