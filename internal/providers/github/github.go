package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/providers"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "profilecard/0.1"
	maxAvatarBytes   = 4 << 20
	searchWorkers    = 4
)

type Provider struct {
	client  *http.Client
	baseURL string
	token   string
}

type Option func(*Provider)

func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

func New(token string, opts ...Option) *Provider {
	p := &Provider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		token:   token,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "github"
}

type githubUser struct {
	Login       string `json:"login"`
	Name        string `json:"name"`
	AvatarURL   string `json:"avatar_url"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
	Following   int    `json:"following"`
}

type githubRepo struct {
	Name            string `json:"name"`
	StargazersCount int    `json:"stargazers_count"`
	ForksCount      int    `json:"forks_count"`
	Fork            bool   `json:"fork"`
}

func (p *Provider) Fetch(ctx context.Context, handle string) (core.Snapshot, error) {
	user, err := p.fetchUser(ctx, handle)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("github: fetch user: %w", err)
	}

	repos, err := p.fetchRepos(ctx, user.Login)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("github: fetch repos: %w", err)
	}

	snap := core.Snapshot{
		Name:        pickName(user),
		Username:    user.Login,
		Followers:   user.Followers,
		Following:   user.Following,
		PublicRepos: user.PublicRepos,
	}
	for _, r := range repos {
		if r.Fork {
			continue
		}
		snap.TotalStars += r.StargazersCount
		snap.TotalForks += r.ForksCount
	}

	login := user.Login
	searches := []struct {
		path  string
		query string
		dst   *int
	}{
		{"/search/commits", "author:" + login, &snap.TotalCommits},
		{"/search/issues", "author:" + login + " type:pr", &snap.TotalPRs},
		{"/search/issues", "author:" + login + " type:pr is:merged", &snap.TotalPRsMerged},
		{"/search/issues", "reviewed-by:" + login + " type:pr", &snap.TotalReviews},
		{"/search/issues", "author:" + login + " type:issue", &snap.TotalIssues},
		{"/search/issues", "author:" + login + " type:issue is:closed", &snap.TotalClosedIssues},
		{"/search/issues", "author:" + login + " type:pr is:merged -user:" + login, &snap.TotalContributedTo},
	}

	// Counters are best effort: a failed search (usually rate limiting)
	// leaves its counter at zero instead of failing the whole card.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(searchWorkers)
	for _, s := range searches {
		g.Go(func() error {
			if n, err := p.searchCount(gctx, s.path, s.query); err == nil {
				*s.dst = n
			}
			return nil
		})
	}
	g.Go(func() error {
		if p.token == "" {
			return nil
		}
		started, answered, err := p.fetchDiscussions(gctx, login)
		if err == nil {
			snap.TotalDiscussionStarted = started
			snap.TotalDiscussionAnswered = answered
		}
		return nil
	})
	g.Go(func() error {
		if pic, err := fetchAvatar(gctx, p.client, user.AvatarURL); err == nil {
			snap.Picture = pic
		}
		return nil
	})
	_ = g.Wait()

	return snap, nil
}

func (p *Provider) fetchUser(ctx context.Context, handle string) (*githubUser, error) {
	endpoint := fmt.Sprintf("%s/users/%s", p.baseURL, url.PathEscape(handle))

	var u githubUser
	if err := p.getJSON(ctx, endpoint, &u, nil); err != nil {
		if err == errNotFound {
			return nil, fmt.Errorf("user %q: %w", handle, providers.ErrNotFound)
		}
		return nil, err
	}
	return &u, nil
}

func (p *Provider) fetchRepos(ctx context.Context, handle string) ([]githubRepo, error) {
	var allRepos []githubRepo
	nextURL := fmt.Sprintf("%s/users/%s/repos?per_page=100&type=owner", p.baseURL, url.PathEscape(handle))

	for nextURL != "" {
		var repos []githubRepo
		var header http.Header
		if err := p.getJSON(ctx, nextURL, &repos, &header); err != nil {
			return nil, err
		}
		allRepos = append(allRepos, repos...)
		nextURL = extractNextLink(header.Get("Link"))
	}

	return allRepos, nil
}

func (p *Provider) searchCount(ctx context.Context, path, query string) (int, error) {
	endpoint := fmt.Sprintf("%s%s?q=%s&per_page=1", p.baseURL, path, url.QueryEscape(query))

	var result struct {
		TotalCount int `json:"total_count"`
	}
	if err := p.getJSON(ctx, endpoint, &result, nil); err != nil {
		return 0, err
	}
	return result.TotalCount, nil
}

const discussionsQuery = `query($login: String!) {
  user(login: $login) {
    repositoryDiscussions { totalCount }
    repositoryDiscussionComments(onlyAnswers: true) { totalCount }
  }
}`

func (p *Provider) fetchDiscussions(ctx context.Context, login string) (int, int, error) {
	body, err := json.Marshal(map[string]any{
		"query":     discussionsQuery,
		"variables": map[string]string{"login": login},
	})
	if err != nil {
		return 0, 0, fmt.Errorf("encode graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/graphql", bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("new request: %w", err)
	}
	p.applyHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return 0, 0, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, 0, fmt.Errorf("unexpected status %d from graphql", resp.StatusCode)
	}

	var result struct {
		Data struct {
			User struct {
				RepositoryDiscussions        struct{ TotalCount int } `json:"repositoryDiscussions"`
				RepositoryDiscussionComments struct{ TotalCount int } `json:"repositoryDiscussionComments"`
			} `json:"user"`
		} `json:"data"`
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return 0, 0, fmt.Errorf("decode graphql response: %w", err)
	}
	if len(result.Errors) > 0 {
		return 0, 0, fmt.Errorf("graphql: %s", result.Errors[0].Message)
	}

	u := result.Data.User
	return u.RepositoryDiscussions.TotalCount, u.RepositoryDiscussionComments.TotalCount, nil
}

var errNotFound = fmt.Errorf("not found")

// getJSON issues a GET to endpoint and decodes the body into dst. When
// header is non-nil it receives the response headers.
func (p *Provider) getJSON(ctx context.Context, endpoint string, dst any, header *http.Header) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	p.applyHeaders(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if header != nil {
		*header = resp.Header
	}
	return nil
}

func fetchAvatar(ctx context.Context, client *http.Client, avatarURL string) ([]byte, error) {
	if avatarURL == "" {
		return nil, fmt.Errorf("no avatar url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new avatar request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("avatar fetch failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
	if err != nil {
		return nil, fmt.Errorf("read avatar body: %w", err)
	}
	return data, nil
}

func (p *Provider) applyHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", defaultUserAgent)
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
}

func pickName(u *githubUser) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// extractNextLink returns the rel="next" target of a Link header.
func extractNextLink(linkHeader string) string {
	for _, link := range strings.Split(linkHeader, ",") {
		target, params, ok := strings.Cut(link, ";")
		if !ok || !strings.Contains(params, `rel="next"`) {
			continue
		}
		return strings.Trim(strings.TrimSpace(target), "<>")
	}
	return ""
}
