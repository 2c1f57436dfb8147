package common

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cucumber/godog"

	"linkgateway/e2e/fakeregistry"
	id "linkgateway/pkg/domain"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	Start(apiKey string, version id.APIVersion)
	SetRegistryResponse(status int, body string)
	RegistryCalls() []fakeregistry.Call
	Send(method, path, body string, headers map[string]string) error
	GetLastStatusCode() int
	GetLastHeader(name string) string
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers background, request, and assertion steps shared by
// every feature.
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &commonSteps{tc: tc}

	// Background
	ctx.Step(`^the gateway is running with a registry API key$`, steps.gatewayWithKey)
	ctx.Step(`^the gateway is running without a registry API key$`, steps.gatewayWithoutKey)
	ctx.Step(`^the gateway defaults to registry version "([^"]*)"$`, steps.gatewayWithVersion)
	ctx.Step(`^the registry answers (\d+) with:$`, steps.registryAnswers)

	// Requests
	ctx.Step(`^I (GET|POST|DELETE) "([^"]*)"$`, steps.send)
	ctx.Step(`^I (GET|POST|DELETE) "([^"]*)" with:$`, steps.sendWithBody)
	ctx.Step(`^I POST to "([^"]*)" with header "([^"]*)" set to "([^"]*)" and body:$`, steps.sendWithHeader)

	// Assertions
	ctx.Step(`^the response status should be (\d+)$`, steps.statusShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be "([^"]*)"$`, steps.fieldShouldBe)
	ctx.Step(`^the response field "([^"]*)" should be (true|false)$`, steps.fieldShouldBeBool)
	ctx.Step(`^the response header "([^"]*)" should be "([^"]*)"$`, steps.headerShouldBe)
	ctx.Step(`^the registry should not have been called$`, steps.registryNotCalled)
	ctx.Step(`^the registry should have received (GET|POST|DELETE) "([^"]*)"$`, steps.registryReceived)
	ctx.Step(`^the registry should have received the body:$`, steps.registryReceivedBody)
}

type commonSteps struct {
	tc TestContext
}

func (s *commonSteps) gatewayWithKey(ctx context.Context) error {
	s.tc.Start("test-api-key", id.APIVersionV32)
	return nil
}

func (s *commonSteps) gatewayWithoutKey(ctx context.Context) error {
	s.tc.Start("", id.APIVersionV32)
	return nil
}

func (s *commonSteps) gatewayWithVersion(ctx context.Context, raw string) error {
	v, err := id.ParseAPIVersion(raw)
	if err != nil {
		return err
	}
	s.tc.Start("test-api-key", v)
	return nil
}

func (s *commonSteps) registryAnswers(ctx context.Context, status int, body *godog.DocString) error {
	s.tc.SetRegistryResponse(status, body.Content)
	return nil
}

func (s *commonSteps) send(ctx context.Context, method, path string) error {
	return s.tc.Send(method, path, "", nil)
}

func (s *commonSteps) sendWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	return s.tc.Send(method, path, body.Content, nil)
}

func (s *commonSteps) sendWithHeader(ctx context.Context, path, header, value string, body *godog.DocString) error {
	return s.tc.Send("POST", path, body.Content, map[string]string{header: value})
}

func (s *commonSteps) statusShouldBe(ctx context.Context, expected int) error {
	if got := s.tc.GetLastStatusCode(); got != expected {
		return fmt.Errorf("expected status %d, got %d", expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBe(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	if got := fmt.Sprint(value); got != expected {
		return fmt.Errorf("expected %s=%q, got %q", field, expected, got)
	}
	return nil
}

func (s *commonSteps) fieldShouldBeBool(ctx context.Context, field, expected string) error {
	value, err := s.tc.GetResponseField(field)
	if err != nil {
		return err
	}
	b, ok := value.(bool)
	if !ok || fmt.Sprint(b) != expected {
		return fmt.Errorf("expected %s=%s, got %v", field, expected, value)
	}
	return nil
}

func (s *commonSteps) headerShouldBe(ctx context.Context, name, expected string) error {
	if got := s.tc.GetLastHeader(name); got != expected {
		return fmt.Errorf("expected header %s=%q, got %q", name, expected, got)
	}
	return nil
}

func (s *commonSteps) registryNotCalled(ctx context.Context) error {
	if calls := s.tc.RegistryCalls(); len(calls) > 0 {
		return fmt.Errorf("expected no registry calls, got %d (first: %s %s)", len(calls), calls[0].Method, calls[0].Path)
	}
	return nil
}

func (s *commonSteps) registryReceived(ctx context.Context, method, target string) error {
	path, query, _ := strings.Cut(target, "?")
	for _, c := range s.tc.RegistryCalls() {
		if c.Method == method && c.Path == path && (query == "" || c.Query == query) {
			if c.APIKey == "" {
				return fmt.Errorf("registry call %s %s was sent without an API key", method, target)
			}
			return nil
		}
	}
	return fmt.Errorf("registry never received %s %s; calls: %+v", method, target, s.tc.RegistryCalls())
}

func (s *commonSteps) registryReceivedBody(ctx context.Context, expected *godog.DocString) error {
	calls := s.tc.RegistryCalls()
	if len(calls) == 0 {
		return fmt.Errorf("registry was not called")
	}
	var want, got any
	if err := json.Unmarshal([]byte(expected.Content), &want); err != nil {
		return fmt.Errorf("expected body is not JSON: %w", err)
	}
	last := calls[len(calls)-1]
	if err := json.Unmarshal([]byte(last.Body), &got); err != nil {
		return fmt.Errorf("registry body is not JSON: %w", err)
	}
	if fmt.Sprint(want) != fmt.Sprint(got) {
		return fmt.Errorf("expected registry body %s, got %s", expected.Content, last.Body)
	}
	return nil
}
