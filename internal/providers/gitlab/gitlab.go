package gitlab

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vukan322/profilecard/internal/core"
	"github.com/vukan322/profilecard/internal/providers"
)

const (
	defaultBaseURL = "https://gitlab.com/api/v4"
	maxAvatarBytes = 4 << 20
	countWorkers   = 4
)

// Provider fills a snapshot from the GitLab REST API. Merge requests stand
// in for pull requests. GitLab has no commit search or discussions, so
// those counters stay zero.
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
	return "gitlab"
}

type gitlabUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar_url"`
	Followers int    `json:"followers"`
	Following int    `json:"following"`
}

type gitlabProject struct {
	ID                int    `json:"id"`
	PathWithNamespace string `json:"path_with_namespace"`
	Visibility        string `json:"visibility"`
	StarCount         int    `json:"star_count"`
	ForksCount        int    `json:"forks_count"`
	ForkedFrom        *struct {
		ID int `json:"id"`
	} `json:"forked_from_project"`
}

func (p *Provider) Fetch(ctx context.Context, handle string) (core.Snapshot, error) {
	user, err := p.fetchUser(ctx, handle)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("gitlab: fetch user: %w", err)
	}

	projects, err := p.fetchProjects(ctx, user.ID)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("gitlab: fetch projects: %w", err)
	}

	snap := core.Snapshot{
		Name:      pickName(user),
		Username:  user.Username,
		Followers: user.Followers,
		Following: user.Following,
	}
	for _, pr := range projects {
		if pr.Visibility == "public" {
			snap.PublicRepos++
		}
		if pr.ForkedFrom != nil {
			continue
		}
		snap.TotalStars += pr.StarCount
		snap.TotalForks += pr.ForksCount
	}

	id := strconv.Itoa(user.ID)
	counts := []struct {
		path  string
		query url.Values
		dst   *int
	}{
		{"/merge_requests", url.Values{"author_id": {id}}, &snap.TotalPRs},
		{"/merge_requests", url.Values{"author_id": {id}, "state": {"merged"}}, &snap.TotalPRsMerged},
		{"/merge_requests", url.Values{"reviewer_id": {id}}, &snap.TotalReviews},
		{"/issues", url.Values{"author_id": {id}}, &snap.TotalIssues},
		{"/issues", url.Values{"author_id": {id}, "state": {"closed"}}, &snap.TotalClosedIssues},
	}

	// As with GitHub, a failed count leaves its counter at zero.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(countWorkers)
	for _, c := range counts {
		g.Go(func() error {
			if n, err := p.count(gctx, c.path, c.query); err == nil {
				*c.dst = n
			}
			return nil
		})
	}
	g.Go(func() error {
		if pic, err := p.fetchAvatar(gctx, user.Avatar); err == nil {
			snap.Picture = pic
		}
		return nil
	})
	_ = g.Wait()

	return snap, nil
}

func (p *Provider) fetchUser(ctx context.Context, handle string) (*gitlabUser, error) {
	endpoint := fmt.Sprintf("%s/users?username=%s", p.baseURL, url.QueryEscape(handle))

	var users []gitlabUser
	if _, err := p.getJSON(ctx, endpoint, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %q: %w", handle, providers.ErrNotFound)
	}

	// The search result omits follower counts; the user endpoint has them.
	var full gitlabUser
	if _, err := p.getJSON(ctx, fmt.Sprintf("%s/users/%d", p.baseURL, users[0].ID), &full); err != nil {
		return &users[0], nil
	}
	return &full, nil
}

func (p *Provider) fetchProjects(ctx context.Context, userID int) ([]gitlabProject, error) {
	var all []gitlabProject

	for page := 1; ; page++ {
		endpoint := fmt.Sprintf("%s/users/%d/projects?per_page=100&page=%d", p.baseURL, userID, page)

		var pageProjects []gitlabProject
		if _, err := p.getJSON(ctx, endpoint, &pageProjects); err != nil {
			return nil, err
		}
		if len(pageProjects) == 0 {
			break
		}
		all = append(all, pageProjects...)
	}

	return all, nil
}

// count reads the X-Total header of a one-item page.
func (p *Provider) count(ctx context.Context, path string, q url.Values) (int, error) {
	q.Set("scope", "all")
	q.Set("per_page", "1")
	endpoint := p.baseURL + path + "?" + q.Encode()

	var discard []json.RawMessage
	header, err := p.getJSON(ctx, endpoint, &discard)
	if err != nil {
		return 0, err
	}
	total := header.Get("X-Total")
	if total == "" {
		return 0, fmt.Errorf("no X-Total header from %s", endpoint)
	}
	n, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("parse X-Total %q: %w", total, err)
	}
	return n, nil
}

func (p *Provider) getJSON(ctx context.Context, endpoint string, dst any) (http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	p.applyAuth(req)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.Header, nil
}

func (p *Provider) fetchAvatar(ctx context.Context, avatarURL string) ([]byte, error) {
	if avatarURL == "" {
		return nil, fmt.Errorf("no avatar url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, avatarURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new avatar request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("avatar fetch failed with status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxAvatarBytes))
}

func (p *Provider) applyAuth(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	if p.token != "" {
		req.Header.Set("PRIVATE-TOKEN", p.token)
	}
}

func pickName(u *gitlabUser) string {
	if u.Name != "" {
		return u.Name
	}
	return u.Username
}
