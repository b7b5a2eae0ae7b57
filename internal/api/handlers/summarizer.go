package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dandihq/dandi-api/internal/github"
	"github.com/dandihq/dandi-api/internal/summarize"
)

type RepoFetcher interface {
	GetRepo(ctx context.Context, owner, repo string) (*github.Repo, error)
	GetReadme(ctx context.Context, owner, repo string) (string, error)
}

type Summarizer interface {
	Summarize(ctx context.Context, owner, repo, readme string) *summarize.Summary
}

type SummarizerHandler struct {
	validator  Validator
	repos      RepoFetcher
	summarizer Summarizer
	keyHeader  string
}

func NewSummarizerHandler(validator Validator, repos RepoFetcher, summarizer Summarizer, keyHeader string) *SummarizerHandler {
	return &SummarizerHandler{
		validator:  validator,
		repos:      repos,
		summarizer: summarizer,
		keyHeader:  keyHeader,
	}
}

type summarizeRequest struct {
	RepoURL string `json:"repo_url"`
}

type repoSummary struct {
	Description string   `json:"description"`
	Language    string   `json:"language"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	OpenIssues  int      `json:"open_issues"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
	Topics      []string `json:"topics"`
	License     string   `json:"license"`
	Homepage    *string  `json:"homepage"`
}

func (h *SummarizerHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	key := r.Header.Get(h.keyHeader)
	if strings.TrimSpace(key) == "" {
		writeVerdictError(w, http.StatusBadRequest, "API key is required")
		return
	}

	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RepoURL) == "" {
		writeVerdictError(w, http.StatusBadRequest, "repo_url is required")
		return
	}

	verdict, err := h.validator.Validate(r.Context(), key, "/api/github-summarizer")
	if err != nil {
		status, msg := verdictStatus(err)
		writeVerdictError(w, status, msg)
		return
	}

	owner, repo, err := github.ParseRepoURL(req.RepoURL)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	repoData, err := h.repos.GetRepo(r.Context(), owner, repo)
	if errors.Is(err, github.ErrRepoNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("GitHub repository not found: %s/%s", owner, repo),
		})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "Failed to fetch repository data"})
		return
	}

	// A missing README is not fatal; summarization is simply skipped.
	aiSummary := "README not available for AI summary"
	coolFacts := []string{}
	if readme, err := h.repos.GetReadme(r.Context(), owner, repo); err == nil && readme != "" {
		s := h.summarizer.Summarize(r.Context(), owner, repo, readme)
		aiSummary = s.Summary
		coolFacts = s.CoolFacts
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"valid":      true,
		"message":    "API key validated successfully",
		"keyName":    verdict.KeyName,
		"repository": repoData.FullName,
		"summary":    buildRepoSummary(repoData),
		"ai_summary": aiSummary,
		"cool_facts": coolFacts,
	})
}

func buildRepoSummary(r *github.Repo) repoSummary {
	description := r.Description
	if description == "" {
		description = "No description available"
	}

	license := "Not specified"
	if r.License != nil && r.License.Name != "" {
		license = r.License.Name
	}

	var homepage *string
	if r.Homepage != "" {
		homepage = &r.Homepage
	}

	topics := r.Topics
	if topics == nil {
		topics = []string{}
	}

	return repoSummary{
		Description: description,
		Language:    r.Language,
		Stars:       r.StargazersCount,
		Forks:       r.ForksCount,
		OpenIssues:  r.OpenIssuesCount,
		CreatedAt:   r.CreatedAt.Format("2006-01-02T15:04:05Z"),
		UpdatedAt:   r.UpdatedAt.Format("2006-01-02T15:04:05Z"),
		Topics:      topics,
		License:     license,
		Homepage:    homepage,
	}
}
