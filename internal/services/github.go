package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIBase = "https://api.github.com"

// GitHubProfile is the subset of the GitHub user resource we store.
type GitHubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

// IdentityProvider is the external OAuth identity source.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	// FetchProfile exchanges an authorization code and returns the profile
	// of the authenticated account.
	FetchProfile(ctx context.Context, code string) (*GitHubProfile, error)
}

type GitHubOAuth struct {
	config  *oauth2.Config
	apiBase string
}

// NewGitHubOAuth configures the GitHub OAuth app. redirectURL is the public
// URL of the callback endpoint.
func NewGitHubOAuth(clientID, clientSecret, redirectURL string) *GitHubOAuth {
	return &GitHubOAuth{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Scopes:       []string{"read:user", "user:email"},
			Endpoint:     github.Endpoint,
		},
		apiBase: githubAPIBase,
	}
}

// WithEndpoints points the provider at alternative OAuth and API hosts.
func (g *GitHubOAuth) WithEndpoints(endpoint oauth2.Endpoint, apiBase string) *GitHubOAuth {
	g.config.Endpoint = endpoint
	g.apiBase = apiBase
	return g
}

func (g *GitHubOAuth) IsConfigured() bool {
	return g.config.ClientID != "" && g.config.ClientSecret != ""
}

func (g *GitHubOAuth) AuthCodeURL(state string) string {
	return g.config.AuthCodeURL(state)
}

func (g *GitHubOAuth) FetchProfile(ctx context.Context, code string) (*GitHubProfile, error) {
	token, err := g.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	client := g.config.Client(ctx, token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiBase+"/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch github user: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch github user: unexpected status %d", resp.StatusCode)
	}

	var profile GitHubProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode github user: %w", err)
	}
	if profile.Login == "" {
		return nil, fmt.Errorf("github user has no login")
	}
	return &profile, nil
}
