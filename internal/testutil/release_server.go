// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type (
	// FakeAsset is one downloadable file of a FakeRelease.
	FakeAsset struct {
		Name    string
		Content []byte
	}

	// FakeRelease describes a release served by NewReleaseServer.
	FakeRelease struct {
		Tag         string
		PublishedAt string // RFC 3339, "" for null
		Assets      []FakeAsset
	}

	// ReleaseServer is an httptest server speaking the subset of the GitHub
	// REST API used for releases of one repository.
	ReleaseServer struct {
		*httptest.Server
		Owner string
		Repo  string
	}
)

// NewReleaseServer serves owner/repo with latest as the latest release and
// every release in others under its tag. Unknown paths return 404. The
// server is closed when the test ends.
func NewReleaseServer(t testing.TB, owner, repo string, latest FakeRelease, others ...FakeRelease) *ReleaseServer {
	t.Helper()

	rs := &ReleaseServer{Owner: owner, Repo: repo}
	byTag := map[string]FakeRelease{latest.Tag: latest}
	for _, r := range others {
		byTag[r.Tag] = r
	}

	prefix := "/repos/" + owner + "/" + repo + "/releases/"
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == prefix+"latest":
			rs.writeRelease(w, latest)
		case strings.HasPrefix(r.URL.Path, prefix+"tags/"):
			rel, ok := byTag[strings.TrimPrefix(r.URL.Path, prefix+"tags/")]
			if !ok {
				http.NotFound(w, r)
				return
			}
			rs.writeRelease(w, rel)
		case strings.HasPrefix(r.URL.Path, "/download/"):
			parts := strings.SplitN(strings.TrimPrefix(r.URL.Path, "/download/"), "/", 2)
			if len(parts) != 2 {
				http.NotFound(w, r)
				return
			}
			for _, a := range byTag[parts[0]].Assets {
				if a.Name == parts[1] {
					w.Header().Set("Content-Type", "application/octet-stream")
					_, _ = w.Write(a.Content)
					return
				}
			}
			http.NotFound(w, r)
		default:
			http.NotFound(w, r)
		}
	})

	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)
	return rs
}

func (rs *ReleaseServer) writeRelease(w http.ResponseWriter, rel FakeRelease) {
	assets := make([]map[string]any, 0, len(rel.Assets))
	for i, a := range rel.Assets {
		assets = append(assets, map[string]any{
			"id":                   1000 + i,
			"name":                 a.Name,
			"label":                nil,
			"state":                "uploaded",
			"content_type":         "application/octet-stream",
			"size":                 len(a.Content),
			"download_count":       42,
			"browser_download_url": rs.URL + "/download/" + rel.Tag + "/" + a.Name,
			"uploader":             map[string]any{"login": "github-actions[bot]", "type": "Bot"},
		})
	}

	var published any
	if rel.PublishedAt != "" {
		published = rel.PublishedAt
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":           1,
		"tag_name":     rel.Tag,
		"name":         "Nvim " + rel.Tag,
		"draft":        false,
		"prerelease":   false,
		"published_at": published,
		"assets":       assets,
	})
}
