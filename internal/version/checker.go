package version

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/studiowebux/wayqa/internal/executor"
	"github.com/studiowebux/wayqa/internal/types"
)

// ReleasesURL is the endpoint describing the latest published release
const ReleasesURL = "https://api.github.com/repos/studiowebux/wayqa/releases/latest"

type gitHubRelease struct {
	TagName string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Update describes the latest release relative to the running version
type Update struct {
	Available bool
	Latest    string
	URL       string
}

// CheckForUpdate fetches releaseURL with exec and compares its tag with
// currentVersion
func CheckForUpdate(ctx context.Context, exec *executor.Executor, releaseURL, currentVersion string) (Update, error) {
	resp, err := exec.Execute(ctx, types.Request{Method: types.MethodGet, URL: releaseURL})
	if err != nil {
		return Update{}, fmt.Errorf("failed to fetch latest release: %w", err)
	}
	if resp.StatusCode != 200 {
		return Update{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var release gitHubRelease
	if err := json.Unmarshal([]byte(resp.Body), &release); err != nil {
		return Update{}, fmt.Errorf("failed to decode response: %w", err)
	}

	latest := strings.TrimPrefix(release.TagName, "v")
	current := strings.TrimPrefix(currentVersion, "v")

	return Update{
		Available: latest != "" && isNewerVersion(latest, current),
		Latest:    latest,
		URL:       release.HTMLURL,
	}, nil
}

// isNewerVersion compares two semantic versions and returns true if latest > current
// Supports versions like "0.0.28", "1.2.3", "0.0.29-dev", etc.
func isNewerVersion(latest, current string) bool {
	latestParts := parseVersion(latest)
	currentParts := parseVersion(current)

	n := max(len(latestParts), len(currentParts))
	for i := 0; i < n; i++ {
		l, c := part(latestParts, i), part(currentParts, i)
		if l != c {
			return l > c
		}
	}
	return false
}

// part returns parts[i], treating missing parts as zero
func part(parts []int, i int) int {
	if i < len(parts) {
		return parts[i]
	}
	return 0
}

// parseVersion parses a version string into integer parts
// Handles pre-release versions by stripping everything after "-" or "+"
func parseVersion(version string) []int {
	if idx := strings.IndexAny(version, "-+"); idx != -1 {
		version = version[:idx]
	}

	parts := strings.Split(version, ".")
	result := make([]int, 0, len(parts))

	for _, p := range parts {
		num, err := strconv.Atoi(p)
		if err != nil {
			continue
		}
		result = append(result, num)
	}

	return result
}
