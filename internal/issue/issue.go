// SPDX-License-Identifier: EPL-2.0

package issue

import (
	"cmp"
	"slices"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

type Id int

const (
	ReleaseNotFoundId Id = iota + 1
	UnsupportedPlatformId
	AssetNotFoundId
	FileExistsId
	FileNotFoundId
	PermissionDeniedId
	AlternativesNotAvailableId
	AlternativesFailedId
	RateLimitedId
	NetworkFailedId
	ConfigLoadFailedId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

// Render renders the page with a glamour style: "auto", "dark", "light",
// "notty" or a path to a JSON style file.
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if links := append(i.DocLinks(), i.extLinks...); len(links) > 0 {
		md += "\n\n## See also\n"
		for _, link := range links {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	releaseNotFoundIssue = &Issue{
		id: ReleaseNotFoundId,
		mdMsg: `
# Release not found!

The repository has no published release matching your request.

## Things you can try:
- Check the tag spelling; Neovim tags look like ` + "`v0.11.0`" + `
- Drop ` + "`--tag`" + ` to use the latest stable release
- Check ` + "`source.owner`" + ` and ` + "`source.repo`" + ` in your config`,
		extLinks: []HttpLink{"https://github.com/neovim/neovim/releases"},
	}

	unsupportedPlatformIssue = &Issue{
		id: UnsupportedPlatformId,
		mdMsg: `
# Platform not supported!

No release asset is configured for this operating system and architecture.
Prebuilt AppImages exist for Linux on x86_64 and aarch64.

## Things you can try:
- Map your platform to an asset in the config file:
~~~cue
assets: [{os: "Linux", arch: "x86_64", name: "nvim-linux-x86_64.appimage"}]
~~~
- Install Neovim with your system package manager instead`,
	}

	assetNotFoundIssue = &Issue{
		id: AssetNotFoundId,
		mdMsg: `
# Release asset not found!

The release exists but does not carry the asset selected for your platform.
Asset names occasionally change between releases.

## Things you can try:
- List the assets of the release:
~~~
$ nvim-latest fetch
~~~
- Update the ` + "`assets`" + ` table in your config to the new name`,
	}

	fileExistsIssue = &Issue{
		id: FileExistsId,
		mdMsg: `
# Target file already exists!

Install never overwrites an existing file.

## Things you can try:
- Replace it with the latest release:
~~~
$ nvim-latest update
~~~
- Remove it first:
~~~
$ nvim-latest uninstall
~~~
- Install under another name with ` + "`--filename`" + ` or ` + "`--path`",
	}

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# Nothing installed at the target path!

## Things you can try:
- Check ` + "`--path`" + ` and ` + "`--filename`" + `; they must match the values used at install time
- Install it:
~~~
$ nvim-latest install
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

You don't have permission to write to the install directory or to manage
alternatives.

## Things you can try:
- Run the command with elevated privileges:
~~~
$ sudo nvim-latest install
~~~
- Install into a directory you own:
~~~
$ nvim-latest install --path ~/.local/bin
~~~`,
	}

	alternativesNotAvailableIssue = &Issue{
		id: AlternativesNotAvailableId,
		mdMsg: `
# update-alternatives is not available!

The alternatives system is specific to Debian-based distributions.

## Things you can try:
- Install it (Debian/Ubuntu ship it in the ` + "`dpkg`" + ` package)
- Create the symlink yourself:
~~~
$ sudo ln -s /usr/local/bin/nvim.appimage /usr/bin/vi
~~~`,
		extLinks: []HttpLink{"https://manpages.debian.org/update-alternatives"},
	}

	alternativesFailedIssue = &Issue{
		id: AlternativesFailedId,
		mdMsg: `
# update-alternatives failed!

The command's own error message is shown above.

## Things you can try:
- Inspect the current group:
~~~
$ nvim-latest alternatives --query
~~~
- Make sure the executable exists before registering it
- Use the same ` + "`--name`" + ` that was used at install time`,
	}

	rateLimitedIssue = &Issue{
		id: RateLimitedId,
		mdMsg: `
# GitHub API rate limit exceeded!

Unauthenticated clients may make 60 requests per hour.

## Things you can try:
- Wait until the reset time shown above
- Provide a token to raise the limit:
~~~
$ export GITHUB_TOKEN=ghp_...
~~~`,
		extLinks: []HttpLink{"https://docs.github.com/rest/using-the-rest-api/rate-limits-for-the-rest-api"},
	}

	networkFailedIssue = &Issue{
		id: NetworkFailedId,
		mdMsg: `
# Could not reach GitHub!

## Things you can try:
- Check your network connection and proxy settings (` + "`HTTPS_PROXY`" + `)
- Retry transient failures automatically:
~~~cue
http: retries: 3
~~~`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

## Things you can try:
- Show where the configuration is read from:
~~~
$ nvim-latest config path
~~~
- Compare with the defaults:
~~~
$ nvim-latest config dump
~~~`,
	}

	issues = map[Id]*Issue{
		releaseNotFoundIssue.Id():          releaseNotFoundIssue,
		unsupportedPlatformIssue.Id():      unsupportedPlatformIssue,
		assetNotFoundIssue.Id():            assetNotFoundIssue,
		fileExistsIssue.Id():               fileExistsIssue,
		fileNotFoundIssue.Id():             fileNotFoundIssue,
		permissionDeniedIssue.Id():         permissionDeniedIssue,
		alternativesNotAvailableIssue.Id(): alternativesNotAvailableIssue,
		alternativesFailedIssue.Id():       alternativesFailedIssue,
		rateLimitedIssue.Id():              rateLimitedIssue,
		networkFailedIssue.Id():            networkFailedIssue,
		configLoadFailedIssue.Id():         configLoadFailedIssue,
	}
)

// Values returns every catalogued issue ordered by Id.
func Values() []*Issue {
	all := slices.Collect(maps.Values(issues))
	slices.SortFunc(all, func(a, b *Issue) int { return cmp.Compare(a.id, b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}
