package github

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"devlink/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListRepos_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		assert.Equal(t, "created", r.URL.Query().Get("sort"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"hello-world","html_url":"https://github.com/octocat/hello-world","stargazers_count":42}]`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "test-token")
	repos, err := client.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "hello-world", repos[0].Name)
	assert.Equal(t, 42, repos[0].Stars)
}

func TestListRepos_NoToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")
	repos, err := client.ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestListRepos_UnknownUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")
	_, err := client.ListRepos(context.Background(), "no-such-user")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestListRepos_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClientWithBaseURL(srv.URL, "")
	_, err := client.ListRepos(context.Background(), "octocat")
	require.Error(t, err)

	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, models.CodeStorage, appErr.Code)
}
