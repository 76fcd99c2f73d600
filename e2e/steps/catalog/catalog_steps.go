package catalog

import (
	"context"
	"strings"

	"github.com/cucumber/godog"
)

type TestContext interface {
	POST(path string, body any) error
	GET(path string) error
}

func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &catalogSteps{tc: tc}
	ctx.Step(`^I request a quote for "([^"]*)"$`, steps.quote)
	ctx.Step(`^I list "([^"]*)" regions$`, steps.listCategory)
}

type catalogSteps struct {
	tc TestContext
}

func (s *catalogSteps) quote(_ context.Context, regions string) error {
	return s.tc.POST("/quote", map[string]any{"regions": strings.Split(regions, ",")})
}

func (s *catalogSteps) listCategory(_ context.Context, category string) error {
	return s.tc.GET("/catalog/regions?category=" + category)
}
