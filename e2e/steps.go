package e2e

import (
	"github.com/cucumber/godog"

	"zenith/e2e/steps/catalog"
	"zenith/e2e/steps/common"
	"zenith/e2e/steps/wizard"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	common.RegisterSteps(ctx, tc)
	wizard.RegisterSteps(ctx, tc)
	catalog.RegisterSteps(ctx, tc)
}
