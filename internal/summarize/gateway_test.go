package summarize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Summarize(ctx context.Context, readme string) (*Summary, error) {
	args := m.Called(readme)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Summary), args.Error(1)
}

func newTestGateway(primary, fallback Provider) *Gateway {
	g := &Gateway{
		providers:       make(map[string]Provider),
		defaultProvider: "primary",
		maxRetries:      0,
		timeout:         time.Second,
	}
	if primary != nil {
		g.providers["primary"] = primary
	}
	if fallback != nil {
		g.fallbackProvider = "fallback"
		g.providers["fallback"] = fallback
	}
	return g
}

func TestGatewaySummarize(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	primary.On("Summarize", "readme text").Return(&Summary{Summary: "ok", CoolFacts: []string{"a"}}, nil).Once()

	g := newTestGateway(primary, nil)
	s := g.Summarize(context.Background(), "octocat", "Hello-World", "readme text")

	assert.Equal(t, "ok", s.Summary)
	assert.Equal(t, []string{"a"}, s.CoolFacts)
	primary.AssertExpectations(t)
}

func TestGatewayFallback(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	primary.On("Summarize", "readme").Return(nil, errors.New("quota")).Once()

	fallback := &mockProvider{name: "fallback"}
	fallback.On("Summarize", "readme").Return(&Summary{Summary: "from fallback", CoolFacts: []string{}}, nil).Once()

	g := newTestGateway(primary, fallback)
	s := g.Summarize(context.Background(), "octocat", "Hello-World", "readme")

	assert.Equal(t, "from fallback", s.Summary)
	primary.AssertExpectations(t)
	fallback.AssertExpectations(t)
}

func TestGatewayPlaceholderOnFailure(t *testing.T) {
	primary := &mockProvider{name: "primary"}
	primary.On("Summarize", "readme").Return(nil, errors.New("boom"))

	g := newTestGateway(primary, nil)
	s := g.Summarize(context.Background(), "octocat", "Hello-World", "readme")

	assert.Equal(t, PlaceholderSummary.Summary, s.Summary)
	assert.Empty(t, s.CoolFacts)
}

func TestGatewayPlaceholderNoProviders(t *testing.T) {
	g := newTestGateway(nil, nil)
	s := g.Summarize(context.Background(), "octocat", "Hello-World", "readme")
	assert.Equal(t, PlaceholderSummary.Summary, s.Summary)
}
