package version

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

const (
	RepoOwner = "khanglvm"
	RepoName  = "deepthink"
	UpdateURL = "https://api.github.com/repos/" + RepoOwner + "/" + RepoName + "/releases/latest"

	// checkInterval is how long a release check stays cached.
	checkInterval = 24 * time.Hour
)

var checkMu sync.Mutex

// GitHubRelease represents a GitHub release API response.
type GitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// updateCache stores the last release check on disk so repeated server
// starts do not hammer the GitHub API.
type updateCache struct {
	LastUpdateCheck  time.Time `json:"lastUpdateCheck"`
	LastKnownVersion string    `json:"lastKnownVersion"`
}

// CheckUpdate returns the latest released version if it differs from the
// running one. Checks are cached for 24 hours; within that window it
// returns "" without touching the network.
func CheckUpdate(ctx context.Context) (string, error) {
	checkMu.Lock()
	defer checkMu.Unlock()

	cache := loadUpdateCache()
	if time.Since(cache.LastUpdateCheck) < checkInterval {
		return "", nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", UpdateURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var release GitHubRelease
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")

	cache.LastUpdateCheck = time.Now()
	cache.LastKnownVersion = latest
	saveUpdateCache(cache)

	if latest != "" && latest != Version {
		return latest, nil
	}
	return "", nil
}

// cachePath returns the path to the update check cache file.
func cachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".deepthink-update.json"), nil
}

// loadUpdateCache reads the cached check state, returning an empty cache
// on any error so a check simply runs again.
func loadUpdateCache() *updateCache {
	path, err := cachePath()
	if err != nil {
		return &updateCache{}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return &updateCache{}
	}

	var cache updateCache
	if err := json.Unmarshal(data, &cache); err != nil {
		return &updateCache{}
	}
	return &cache
}

// saveUpdateCache persists the check state; failures are ignored since
// the cache only exists to rate-limit checks.
func saveUpdateCache(cache *updateCache) {
	path, err := cachePath()
	if err != nil {
		return
	}

	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	_ = os.WriteFile(path, data, 0644)
}
