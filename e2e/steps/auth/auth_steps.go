package auth

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	GET(path string, headers map[string]string) error
	SetCredentials(username, password string)
	ClearCredentials()
	GetLastStatusCode() int
	GetLastHeader(name string) string
	GetLastBody() []byte
}

// RegisterSteps registers Basic-Auth gate step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &authSteps{tc: tc}

	// Credential steps
	ctx.Step(`^I send no credentials$`, steps.sendNoCredentials)
	ctx.Step(`^I authenticate as "([^"]*)" with password "([^"]*)"$`, steps.authenticate)
	ctx.Step(`^I GET "([^"]*)" with a bearer token "([^"]*)"$`, steps.getWithBearer)

	// Challenge steps
	ctx.Step(`^I should be challenged for realm "([^"]*)"$`, steps.shouldBeChallenged)
	ctx.Step(`^the response body should be "([^"]*)"$`, steps.bodyShouldBe)
}

type authSteps struct {
	tc TestContext
}

func (s *authSteps) sendNoCredentials(ctx context.Context) error {
	s.tc.ClearCredentials()
	return nil
}

func (s *authSteps) authenticate(ctx context.Context, username, password string) error {
	s.tc.SetCredentials(username, password)
	return nil
}

func (s *authSteps) getWithBearer(ctx context.Context, path, token string) error {
	s.tc.ClearCredentials()
	return s.tc.GET(path, map[string]string{
		"Authorization": "Bearer " + token,
	})
}

func (s *authSteps) shouldBeChallenged(ctx context.Context, realm string) error {
	if got := s.tc.GetLastStatusCode(); got != 401 {
		return fmt.Errorf("expected status 401, got %d", got)
	}
	want := fmt.Sprintf(`Basic realm="%s"`, realm)
	if got := s.tc.GetLastHeader("WWW-Authenticate"); got != want {
		return fmt.Errorf("expected challenge %q, got %q", want, got)
	}
	return nil
}

func (s *authSteps) bodyShouldBe(ctx context.Context, expected string) error {
	if got := string(s.tc.GetLastBody()); got != expected {
		return fmt.Errorf("expected body %q, got %q", expected, got)
	}
	return nil
}
