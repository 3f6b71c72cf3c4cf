package cmd

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/hashicorp/go-version"
	"github.com/nulzo/metasearch/internal/httpclient"
	"github.com/tidwall/gjson"
)

// AppVersion is overridden at build time with -ldflags "-X".
var AppVersion = "v0.1.0"

const releasesURL = "https://api.github.com/repos/nulzo/metasearch/releases/latest"

// UpdateInfo describes the newest published release.
type UpdateInfo struct {
	Current   string
	Latest    string
	Outdated  bool
	Published time.Time
}

// UpdateChecker asks the release feed for the newest version.
type UpdateChecker struct {
	URL    string
	Client httpclient.HTTPClient
}

func NewUpdateChecker() *UpdateChecker {
	return &UpdateChecker{
		URL:    releasesURL,
		Client: &http.Client{Timeout: 2 * time.Second},
	}
}

// Check compares current against the latest release tag.
func (u *UpdateChecker) Check(ctx context.Context, current string) (*UpdateInfo, error) {
	resp, err := httpclient.SendRequest(ctx, u.Client, http.MethodGet, u.URL, map[string]string{
		"Accept": "application/vnd.github+json",
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch latest release: %w", err)
	}

	tag := gjson.GetBytes(resp.Body, "tag_name").String()
	if tag == "" {
		return nil, fmt.Errorf("release feed returned no tag_name")
	}

	currentVersion, err := version.NewVersion(current)
	if err != nil {
		return nil, fmt.Errorf("invalid current version %q: %w", current, err)
	}
	latestVersion, err := version.NewVersion(tag)
	if err != nil {
		return nil, fmt.Errorf("invalid release tag %q: %w", tag, err)
	}

	info := &UpdateInfo{
		Current:  current,
		Latest:   tag,
		Outdated: currentVersion.LessThan(latestVersion),
	}
	if published := gjson.GetBytes(resp.Body, "published_at"); published.Exists() {
		info.Published, _ = time.Parse(time.RFC3339, published.String())
	}
	return info, nil
}

// Notice renders the outdated-version warning block.
func (i *UpdateInfo) Notice() string {
	var b strings.Builder
	b.WriteString("---------------------------------------------------------\n")
	fmt.Fprintf(&b, "WARNING: You are running an outdated version (%s).\n", i.Current)
	fmt.Fprintf(&b, "   The latest version is %s.\n", i.Latest)
	b.WriteString("   Please pull the latest release.\n")
	b.WriteString("---------------------------------------------------------")
	return b.String()
}
