package e2e

import (
	"github.com/cucumber/godog"

	"linkgateway/e2e/steps/auth"
	"linkgateway/e2e/steps/common"
	"linkgateway/e2e/steps/links"
)

// RegisterSteps registers all step definitions from modular packages
func RegisterSteps(ctx *godog.ScenarioContext, tc *TestContext) {
	// Register common steps (background, generic requests, assertions)
	common.RegisterSteps(ctx, tc)

	// Register Basic-Auth gate steps
	auth.RegisterSteps(ctx, tc)

	// Register link operation steps
	links.RegisterSteps(ctx, tc)
}
