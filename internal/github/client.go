// Package github implements a small read-only client for listing a user's
// public repositories, used by the profile GitHub proxy endpoint.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"devlink/internal/models"
	"devlink/internal/observability"
)

// Repo is the subset of the GitHub repository payload exposed to clients.
type Repo struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	HTMLURL     string `json:"html_url"`
	Description string `json:"description"`
	Language    string `json:"language"`
	Stars       int    `json:"stargazers_count"`
	Watchers    int    `json:"watchers_count"`
	Forks       int    `json:"forks_count"`
	CreatedAt   string `json:"created_at"`
}

// Client fetches public repository listings from the GitHub API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient returns a Client. Token is optional; when set it is sent as a
// bearer token to raise the unauthenticated rate limit.
func NewClient(token string) *Client {
	return &Client{
		baseURL: "https://api.github.com",
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NewClientWithBaseURL returns a Client pointed at a custom API base URL.
// Used by tests with an httptest server.
func NewClientWithBaseURL(baseURL, token string) *Client {
	c := NewClient(token)
	c.baseURL = baseURL
	return c
}

// ListRepos returns the user's five most recently created public repos.
func (c *Client) ListRepos(ctx context.Context, username string) ([]Repo, error) {
	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=5&sort=created&direction=desc",
		c.baseURL, url.PathEscape(username))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		observability.GithubProxyRequests.WithLabelValues("error").Inc()
		return nil, models.NewStorageError(err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		observability.GithubProxyRequests.WithLabelValues("error").Inc()
		return nil, models.NewStorageError(err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		observability.GithubProxyRequests.WithLabelValues("not_found").Inc()
		return nil, models.NewNotFoundError("Github profile", username)
	default:
		observability.GithubProxyRequests.WithLabelValues("upstream_error").Inc()
		io.Copy(io.Discard, resp.Body)
		return nil, models.NewStorageError(fmt.Errorf("github responded with status %d", resp.StatusCode))
	}

	var repos []Repo
	if err := json.NewDecoder(resp.Body).Decode(&repos); err != nil {
		observability.GithubProxyRequests.WithLabelValues("error").Inc()
		return nil, models.NewStorageError(err)
	}

	observability.GithubProxyRequests.WithLabelValues("ok").Inc()
	return repos, nil
}
