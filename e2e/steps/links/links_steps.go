package links

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"
)

// TestContext interface defines the methods needed from the main test context
type TestContext interface {
	POST(path string, body any) error
	GetResponseField(field string) (any, error)
}

// RegisterSteps registers link operation step definitions
func RegisterSteps(ctx *godog.ScenarioContext, tc TestContext) {
	steps := &linkSteps{tc: tc}

	// Operations
	ctx.Step(`^I resolve GTIN "([^"]*)"$`, steps.resolve)
	ctx.Step(`^I query links for GTIN "([^"]*)"$`, steps.query)
	ctx.Step(`^I query links for GTIN "([^"]*)" on "([^"]*)"$`, steps.queryOn)
	ctx.Step(`^I ask for feedback on batch "([^"]*)"$`, steps.feedback)

	// Assertions
	ctx.Step(`^the response should list (\d+) links?$`, steps.shouldListLinks)
	ctx.Step(`^every link should carry anchorRelative "([^"]*)"$`, steps.everyLinkAnchored)
}

type linkSteps struct {
	tc TestContext
}

func (s *linkSteps) resolve(ctx context.Context, gtin string) error {
	return s.tc.POST("/resolve-identifier", map[string]string{"gtin": gtin})
}

func (s *linkSteps) query(ctx context.Context, gtin string) error {
	return s.tc.POST("/query-links", map[string]string{"gtin": gtin})
}

func (s *linkSteps) queryOn(ctx context.Context, gtin, prefix string) error {
	return s.tc.POST(prefix+"/query-links", map[string]string{"gtin": gtin})
}

func (s *linkSteps) feedback(ctx context.Context, batchID string) error {
	return s.tc.POST("/batch-feedback", map[string]string{"batchId": batchID})
}

func (s *linkSteps) links() ([]any, error) {
	value, err := s.tc.GetResponseField("links")
	if err != nil {
		return nil, err
	}
	list, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("links is not an array: %v", value)
	}
	return list, nil
}

func (s *linkSteps) shouldListLinks(ctx context.Context, expected int) error {
	list, err := s.links()
	if err != nil {
		return err
	}
	if len(list) != expected {
		return fmt.Errorf("expected %d links, got %d", expected, len(list))
	}
	return nil
}

func (s *linkSteps) everyLinkAnchored(ctx context.Context, anchor string) error {
	list, err := s.links()
	if err != nil {
		return err
	}
	for i, item := range list {
		link, ok := item.(map[string]any)
		if !ok {
			return fmt.Errorf("link %d is not an object", i)
		}
		if got := link["anchorRelative"]; got != anchor {
			return fmt.Errorf("link %d: expected anchorRelative %q, got %v", i, anchor, got)
		}
	}
	return nil
}
