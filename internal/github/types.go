// SPDX-License-Identifier: MPL-2.0

package github

import "time"

const (
	// AssetStateOpen marks an asset whose upload has not completed.
	AssetStateOpen AssetState = "open"
	// AssetStateUploaded marks a fully uploaded, downloadable asset.
	AssetStateUploaded AssetState = "uploaded"
)

type (
	// AssetState is the upload state GitHub reports for a release asset.
	AssetState string

	// Release is a published version record with its downloadable assets.
	Release struct {
		ID              int64
		NodeID          string
		TagName         string     // e.g. "v0.11.0"
		Name            string     // empty when the release has no title
		TargetCommitish string     // branch or commit the tag points at
		Draft           bool       // unpublished draft
		Prerelease      bool       // alpha/beta/RC
		CreatedAt       time.Time  // creation timestamp
		PublishedAt     *time.Time // nil for unpublished releases
		Author          User
		Assets          []Asset // in API order
		URL             string
		HTMLURL         string
		AssetsURL       string
		UploadURL       string
		TarballURL      string
		ZipballURL      string
	}

	// Asset is one downloadable file attached to a Release.
	Asset struct {
		ID                 int64
		NodeID             string
		Name               string // file name, e.g. "nvim-linux-x86_64.appimage"
		Label              string
		ContentType        string
		State              AssetState
		Size               int64 // bytes
		DownloadCount      int64
		Digest             string // "sha256:<hex>" when GitHub computed one
		CreatedAt          time.Time
		UpdatedAt          time.Time
		Uploader           *User // nil when GitHub omits it
		URL                string
		BrowserDownloadURL string
	}

	// User is the account shape GitHub uses for release authors and asset uploaders.
	User struct {
		ID                int64
		NodeID            string
		Login             string
		Type              string // "User", "Bot", "Organization"
		SiteAdmin         bool
		GravatarID        string
		AvatarURL         string
		URL               string
		HTMLURL           string
		EventsURL         string
		FollowersURL      string
		FollowingURL      string
		GistsURL          string
		OrganizationsURL  string
		ReceivedEventsURL string
		ReposURL          string
		StarredURL        string
		SubscriptionsURL  string
	}

	// githubRelease is the JSON wire format for a GitHub Release API response.
	githubRelease struct {
		ID              int64         `json:"id"`
		NodeID          string        `json:"node_id"`
		TagName         string        `json:"tag_name"`
		Name            *string       `json:"name"`
		TargetCommitish string        `json:"target_commitish"`
		Draft           bool          `json:"draft"`
		Prerelease      bool          `json:"prerelease"`
		CreatedAt       time.Time     `json:"created_at"`
		PublishedAt     *time.Time    `json:"published_at"`
		Author          githubUser    `json:"author"`
		Assets          []githubAsset `json:"assets"`
		URL             string        `json:"url"`
		HTMLURL         string        `json:"html_url"`
		AssetsURL       string        `json:"assets_url"`
		UploadURL       string        `json:"upload_url"`
		TarballURL      *string       `json:"tarball_url"`
		ZipballURL      *string       `json:"zipball_url"`
	}

	// githubAsset is the JSON wire format for a GitHub Release asset.
	githubAsset struct {
		ID                 int64       `json:"id"`
		NodeID             string      `json:"node_id"`
		Name               string      `json:"name"`
		Label              *string     `json:"label"`
		ContentType        string      `json:"content_type"`
		State              string      `json:"state"`
		Size               int64       `json:"size"`
		DownloadCount      int64       `json:"download_count"`
		Digest             *string     `json:"digest"`
		CreatedAt          time.Time   `json:"created_at"`
		UpdatedAt          time.Time   `json:"updated_at"`
		Uploader           *githubUser `json:"uploader"`
		URL                string      `json:"url"`
		BrowserDownloadURL string      `json:"browser_download_url"`
	}

	// githubUser is the JSON wire format shared by authors and uploaders.
	githubUser struct {
		ID                int64   `json:"id"`
		NodeID            string  `json:"node_id"`
		Login             string  `json:"login"`
		Type              string  `json:"type"`
		SiteAdmin         bool    `json:"site_admin"`
		GravatarID        *string `json:"gravatar_id"`
		AvatarURL         string  `json:"avatar_url"`
		URL               string  `json:"url"`
		HTMLURL           string  `json:"html_url"`
		EventsURL         string  `json:"events_url"`
		FollowersURL      string  `json:"followers_url"`
		FollowingURL      string  `json:"following_url"`
		GistsURL          string  `json:"gists_url"`
		OrganizationsURL  string  `json:"organizations_url"`
		ReceivedEventsURL string  `json:"received_events_url"`
		ReposURL          string  `json:"repos_url"`
		StarredURL        string  `json:"starred_url"`
		SubscriptionsURL  string  `json:"subscriptions_url"`
	}
)

// Valid reports whether s is one of the states GitHub documents.
func (s AssetState) Valid() bool {
	return s == AssetStateOpen || s == AssetStateUploaded
}

// String returns the raw state value.
func (s AssetState) String() string { return string(s) }

// FindAsset returns the asset with the given name, or nil.
func (r *Release) FindAsset(name string) *Asset {
	for i := range r.Assets {
		if r.Assets[i].Name == name {
			return &r.Assets[i]
		}
	}
	return nil
}

// toRelease converts the JSON wire type to the exported Release type.
func toRelease(gr githubRelease) Release {
	assets := make([]Asset, 0, len(gr.Assets))
	for _, ga := range gr.Assets {
		assets = append(assets, toAsset(ga))
	}

	return Release{
		ID:              gr.ID,
		NodeID:          gr.NodeID,
		TagName:         gr.TagName,
		Name:            deref(gr.Name),
		TargetCommitish: gr.TargetCommitish,
		Draft:           gr.Draft,
		Prerelease:      gr.Prerelease,
		CreatedAt:       gr.CreatedAt,
		PublishedAt:     gr.PublishedAt,
		Author:          toUser(gr.Author),
		Assets:          assets,
		URL:             gr.URL,
		HTMLURL:         gr.HTMLURL,
		AssetsURL:       gr.AssetsURL,
		UploadURL:       gr.UploadURL,
		TarballURL:      deref(gr.TarballURL),
		ZipballURL:      deref(gr.ZipballURL),
	}
}

func toAsset(ga githubAsset) Asset {
	a := Asset{
		ID:                 ga.ID,
		NodeID:             ga.NodeID,
		Name:               ga.Name,
		Label:              deref(ga.Label),
		ContentType:        ga.ContentType,
		State:              AssetState(ga.State),
		Size:               ga.Size,
		DownloadCount:      ga.DownloadCount,
		Digest:             deref(ga.Digest),
		CreatedAt:          ga.CreatedAt,
		UpdatedAt:          ga.UpdatedAt,
		URL:                ga.URL,
		BrowserDownloadURL: ga.BrowserDownloadURL,
	}
	if ga.Uploader != nil {
		u := toUser(*ga.Uploader)
		a.Uploader = &u
	}
	return a
}

func toUser(gu githubUser) User {
	return User{
		ID:                gu.ID,
		NodeID:            gu.NodeID,
		Login:             gu.Login,
		Type:              gu.Type,
		SiteAdmin:         gu.SiteAdmin,
		GravatarID:        deref(gu.GravatarID),
		AvatarURL:         gu.AvatarURL,
		URL:               gu.URL,
		HTMLURL:           gu.HTMLURL,
		EventsURL:         gu.EventsURL,
		FollowersURL:      gu.FollowersURL,
		FollowingURL:      gu.FollowingURL,
		GistsURL:          gu.GistsURL,
		OrganizationsURL:  gu.OrganizationsURL,
		ReceivedEventsURL: gu.ReceivedEventsURL,
		ReposURL:          gu.ReposURL,
		StarredURL:        gu.StarredURL,
		SubscriptionsURL:  gu.SubscriptionsURL,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
