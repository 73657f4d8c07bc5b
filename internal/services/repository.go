package services

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Abhishek40905/ancome-backend/internal/models"
)

// RepositoryInput is the client supplied repository link. Owner and repo are
// derived from the URL when omitted.
type RepositoryInput struct {
	URL   string `json:"url"`
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

// parseRepoPath extracts owner and repo from a repository URL such as
// https://github.com/owner/repo(.git). Nested group paths keep the last two
// segments.
func parseRepoPath(repoURL string) (owner, repo string, err error) {
	urlStr := strings.TrimSuffix(strings.TrimSuffix(strings.TrimSpace(repoURL), "/"), ".git")

	protocolIdx := strings.Index(urlStr, "://")
	if protocolIdx == -1 {
		return "", "", invalidField("repository_link.url", "must be an absolute URL")
	}
	rest := urlStr[protocolIdx+3:]

	slashIdx := strings.Index(rest, "/")
	if slashIdx == -1 || rest[slashIdx+1:] == "" {
		return "", "", invalidField("repository_link.url", "must include owner and repository")
	}

	pathParts := strings.Split(rest[slashIdx+1:], "/")
	if len(pathParts) < 2 || pathParts[len(pathParts)-2] == "" || pathParts[len(pathParts)-1] == "" {
		return "", "", invalidField("repository_link.url", "must include owner and repository")
	}
	return pathParts[len(pathParts)-2], pathParts[len(pathParts)-1], nil
}

// buildRepositoryLink validates in and returns the stored link.
func buildRepositoryLink(in *RepositoryInput, now time.Time) (*models.RepositoryLink, error) {
	if in == nil || strings.TrimSpace(in.URL) == "" {
		return nil, missingField("repository_link.url")
	}

	owner, repo, err := parseRepoPath(in.URL)
	if err != nil {
		return nil, err
	}
	if in.Owner != "" {
		owner = strings.TrimSpace(in.Owner)
	}
	if in.Repo != "" {
		repo = strings.TrimSpace(in.Repo)
	}

	synced := now
	return &models.RepositoryLink{
		URL:          strings.TrimSuffix(strings.TrimSpace(in.URL), ".git"),
		Owner:        owner,
		Repo:         repo,
		LastSyncedAt: &synced,
	}, nil
}

// TagList accepts either a JSON array or a comma separated string.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}
	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(joined, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*t = out
	return nil
}
