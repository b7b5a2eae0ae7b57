package handlers

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/dandihq/dandi-api/internal/apikey"
	"github.com/dandihq/dandi-api/internal/github"
	"github.com/dandihq/dandi-api/internal/summarize"
)

type mockRepoFetcher struct {
	mock.Mock
}

func (m *mockRepoFetcher) GetRepo(ctx context.Context, owner, repo string) (*github.Repo, error) {
	args := m.Called(owner, repo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*github.Repo), args.Error(1)
}

func (m *mockRepoFetcher) GetReadme(ctx context.Context, owner, repo string) (string, error) {
	args := m.Called(owner, repo)
	return args.String(0), args.Error(1)
}

type mockSummarizer struct {
	mock.Mock
}

func (m *mockSummarizer) Summarize(ctx context.Context, owner, repo, readme string) *summarize.Summary {
	args := m.Called(owner, repo, readme)
	return args.Get(0).(*summarize.Summary)
}

func testRepo() *github.Repo {
	return &github.Repo{
		FullName:        "octocat/Hello-World",
		Description:     "My first repository",
		Language:        "C",
		StargazersCount: 1000,
		ForksCount:      500,
		OpenIssuesCount: 10,
		CreatedAt:       time.Date(2011, 1, 26, 19, 1, 12, 0, time.UTC),
		UpdatedAt:       time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Topics:          []string{"example"},
		License:         &github.License{Name: "MIT License"},
	}
}

func postSummarize(t *testing.T, h *SummarizerHandler, key, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/github-summarizer", bytes.NewBufferString(body))
	if key != "" {
		req.Header.Set("x-api-key", key)
	}
	rec := httptest.NewRecorder()
	h.Summarize(rec, req)
	return rec
}

func validVerdict() *apikey.Verdict {
	return &apikey.Verdict{KeyID: uuid.New(), KeyName: "test", Usage: 1}
}

func TestSummarizeSuccess(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	repos := new(mockRepoFetcher)
	repos.On("GetRepo", "octocat", "Hello-World").Return(testRepo(), nil).Once()
	repos.On("GetReadme", "octocat", "Hello-World").Return("# Hello\n", nil).Once()

	sum := new(mockSummarizer)
	sum.On("Summarize", "octocat", "Hello-World", "# Hello\n").
		Return(&summarize.Summary{Summary: "A classic demo repo.", CoolFacts: []string{"first repo"}}).Once()

	h := NewSummarizerHandler(v, repos, sum, "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["valid"])
	assert.Equal(t, "octocat/Hello-World", body["repository"])
	assert.Equal(t, "A classic demo repo.", body["ai_summary"])
	assert.Equal(t, []interface{}{"first repo"}, body["cool_facts"])

	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, "My first repository", summary["description"])
	assert.Equal(t, "C", summary["language"])
	assert.Equal(t, float64(1000), summary["stars"])
	assert.Equal(t, "MIT License", summary["license"])

	v.AssertExpectations(t)
	repos.AssertExpectations(t)
	sum.AssertExpectations(t)
}

func TestSummarizeMissingKey(t *testing.T) {
	h := NewSummarizerHandler(new(mockValidator), new(mockRepoFetcher), new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "API key is required", body["error"])
}

func TestSummarizeMissingRepoURL(t *testing.T) {
	h := NewSummarizerHandler(new(mockValidator), new(mockRepoFetcher), new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "repo_url is required", body["error"])
}

func TestSummarizeInvalidKey(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-bad", "/api/github-summarizer").Return(nil, apikey.ErrInvalidKey).Once()

	h := NewSummarizerHandler(v, new(mockRepoFetcher), new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-bad", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["valid"])
	assert.Equal(t, "Invalid API Key", body["error"])
}

func TestSummarizeQuotaExceeded(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-full", "/api/github-summarizer").Return(nil, apikey.ErrLimitExceeded).Once()

	h := NewSummarizerHandler(v, new(mockRepoFetcher), new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-full", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestSummarizeBadURL(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	h := NewSummarizerHandler(v, new(mockRepoFetcher), new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "not-a-url"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body["error"], "https://github.com/owner/repo")
}

func TestSummarizeRepoNotFound(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	repos := new(mockRepoFetcher)
	repos.On("GetRepo", "nobody", "nothing").Return(nil, github.ErrRepoNotFound).Once()

	h := NewSummarizerHandler(v, repos, new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "https://github.com/nobody/nothing"}`)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "GitHub repository not found: nobody/nothing", body["error"])
}

func TestSummarizeUpstreamError(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	repos := new(mockRepoFetcher)
	repos.On("GetRepo", "octocat", "Hello-World").Return(nil, errors.New("503")).Once()

	h := NewSummarizerHandler(v, repos, new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestSummarizeReadmeMissing(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	repos := new(mockRepoFetcher)
	repos.On("GetRepo", "octocat", "Hello-World").Return(testRepo(), nil).Once()
	repos.On("GetReadme", "octocat", "Hello-World").Return("", errors.New("404")).Once()

	sum := new(mockSummarizer)

	h := NewSummarizerHandler(v, repos, sum, "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "https://github.com/octocat/Hello-World"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "README not available for AI summary", body["ai_summary"])
	assert.Equal(t, []interface{}{}, body["cool_facts"])
	sum.AssertNotCalled(t, "Summarize")
}

func TestSummarizeDefaultsApplied(t *testing.T) {
	v := new(mockValidator)
	v.On("Validate", "dandi-abc", "/api/github-summarizer").Return(validVerdict(), nil).Once()

	bare := &github.Repo{FullName: "octocat/bare"}
	repos := new(mockRepoFetcher)
	repos.On("GetRepo", "octocat", "bare").Return(bare, nil).Once()
	repos.On("GetReadme", "octocat", "bare").Return("", errors.New("404")).Once()

	h := NewSummarizerHandler(v, repos, new(mockSummarizer), "x-api-key")
	rec := postSummarize(t, h, "dandi-abc", `{"repo_url": "https://github.com/octocat/bare"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, "No description available", summary["description"])
	assert.Equal(t, "Not specified", summary["license"])
	assert.Nil(t, summary["homepage"])
	assert.Equal(t, []interface{}{}, summary["topics"])
}
