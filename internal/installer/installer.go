// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/inconshreveable/go-update"

	"github.com/nvim-latest/nvim-latest/internal/github"
)

// ExecutableMode is the permission set applied to installed executables.
const ExecutableMode fs.FileMode = 0o755

type (
	// ReleaseSource is the subset of the GitHub client the installer needs.
	ReleaseSource interface {
		LatestRelease(ctx context.Context) (*github.Release, error)
		ReleaseByTag(ctx context.Context, tag string) (*github.Release, error)
		DownloadAsset(ctx context.Context, url string) (io.ReadCloser, int64, error)
	}

	// Installer composes a release source, the asset table and the local
	// filesystem into install, update and uninstall flows.
	Installer struct {
		source    ReleaseSource
		table     AssetTable
		platform  Platform
		blockSize int
		progress  Progress
		probe     VersionProbe
		logger    *log.Logger
	}

	// Option configures an Installer during construction.
	Option func(*Installer)

	// Result describes a completed install or update.
	Result struct {
		Release  *github.Release
		Asset    *github.Asset // nil when UpToDate
		Path     string
		Previous string // version replaced by Update, "" when unknown
		UpToDate bool   // Update found nothing to do
	}

	// Status compares the executable at Path with a release.
	Status struct {
		Path      string
		Installed string // detected version, "" when unknown
		Latest    string // release tag
		Release   *github.Release
		Outdated  bool
	}

	// UpdateOptions controls Update.
	UpdateOptions struct {
		Tag   string // release tag, "" for the latest release
		Force bool   // replace even when the installed version is current
		// Status is a comparison already made by Check for the same path.
		// When set, Update neither reads the installed version nor fetches the release
		// again, and Tag is ignored.
		Status *Status
	}
)

// WithAssetTable replaces the default asset table.
func WithAssetTable(t AssetTable) Option {
	return func(i *Installer) {
		if len(t) > 0 {
			i.table = t
		}
	}
}

// WithPlatform overrides platform detection.
func WithPlatform(p Platform) Option {
	return func(i *Installer) {
		i.platform = p
	}
}

// WithBlockSize sets the read size used while streaming downloads.
func WithBlockSize(n int) Option {
	return func(i *Installer) {
		if n > 0 {
			i.blockSize = n
		}
	}
}

// WithProgress sets the download progress sink.
func WithProgress(p Progress) Option {
	return func(i *Installer) {
		if p != nil {
			i.progress = p
		}
	}
}

// WithVersionProbe replaces ExecVersionProbe.
func WithVersionProbe(p VersionProbe) Option {
	return func(i *Installer) {
		if p != nil {
			i.probe = p
		}
	}
}

// WithLogger sets the logger for debug output.
func WithLogger(l *log.Logger) Option {
	return func(i *Installer) {
		if l != nil {
			i.logger = l
		}
	}
}

// New creates an Installer backed by source.
func New(source ReleaseSource, opts ...Option) *Installer {
	i := &Installer{
		source:    source,
		table:     DefaultAssetTable(),
		platform:  CurrentPlatform(),
		blockSize: DefaultBlockSize,
		progress:  nopProgress{},
		probe:     ExecVersionProbe,
		logger:    log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Release returns the latest release, or the release tagged tag.
func (i *Installer) Release(ctx context.Context, tag string) (*github.Release, error) {
	if tag == "" {
		return i.source.LatestRelease(ctx)
	}
	return i.source.ReleaseByTag(ctx, tag)
}

// AssetName returns the asset selected for the installer's platform.
func (i *Installer) AssetName() (string, error) {
	return i.table.Lookup(i.platform)
}

// FindAsset returns the asset called name in release.
func FindAsset(release *github.Release, name string) (*github.Asset, error) {
	if a := release.FindAsset(name); a != nil {
		return a, nil
	}
	return nil, &AssetNotFoundError{Name: name, Tag: release.TagName}
}

// Install downloads the platform asset of the selected release to path and
// makes it executable. It refuses to overwrite an existing file.
func (i *Installer) Install(ctx context.Context, path, tag string) (*Result, error) {
	name, err := i.AssetName()
	if err != nil {
		return nil, err
	}

	release, err := i.Release(ctx, tag)
	if err != nil {
		return nil, err
	}

	asset, err := FindAsset(release, name)
	if err != nil {
		return nil, err
	}

	if err := ensureAbsent(path); err != nil {
		return nil, err
	}

	i.logger.Debug("installing asset", "asset", asset.Name, "tag", release.TagName, "path", path)

	tmpPath, err := i.downloadToTempFile(ctx, asset.BrowserDownloadURL, asset.Size, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", asset.Name, err)
	}

	renamed := false
	defer func() {
		if !renamed {
			_ = os.Remove(tmpPath)
		}
	}()

	if err := os.Chmod(tmpPath, ExecutableMode); err != nil {
		return nil, fmt.Errorf("setting permissions: %w", err)
	}

	// The target may have appeared while downloading.
	if err := ensureAbsent(path); err != nil {
		return nil, err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return nil, fmt.Errorf("moving into place: %w", err)
	}
	renamed = true

	return &Result{Release: release, Asset: asset, Path: path}, nil
}

// Check compares the executable at path with the selected release without
// changing anything.
func (i *Installer) Check(ctx context.Context, path, tag string) (*Status, error) {
	if err := ensurePresent(path); err != nil {
		return nil, err
	}

	release, err := i.Release(ctx, tag)
	if err != nil {
		return nil, err
	}

	installed, probeErr := i.probe(ctx, path)
	if probeErr != nil {
		i.logger.Debug("installed version unknown", "path", path, "error", probeErr)
		installed = ""
	}

	return &Status{
		Path:      path,
		Installed: installed,
		Latest:    release.TagName,
		Release:   release,
		Outdated:  isOutdated(installed, release.TagName),
	}, nil
}

// Update replaces the executable at path with the selected release when it
// is outdated, or unconditionally with opts.Force. The previous file is
// restored if the replacement fails.
func (i *Installer) Update(ctx context.Context, path string, opts UpdateOptions) (*Result, error) {
	name, err := i.AssetName()
	if err != nil {
		return nil, err
	}

	status := opts.Status
	if status == nil || status.Path != path || status.Release == nil {
		if status, err = i.Check(ctx, path, opts.Tag); err != nil {
			return nil, err
		}
	} else if err := ensurePresent(path); err != nil {
		return nil, err
	}

	result := &Result{Release: status.Release, Path: path, Previous: status.Installed}
	if !status.Outdated && !opts.Force {
		result.UpToDate = true
		return result, nil
	}

	asset, err := FindAsset(status.Release, name)
	if err != nil {
		return nil, err
	}
	result.Asset = asset

	applyOpts := update.Options{
		TargetPath: path,
		TargetMode: os.FileMode(ExecutableMode),
	}
	if err := applyOpts.CheckPermissions(); err != nil {
		return nil, fmt.Errorf("checking write access to %s: %w", filepath.Dir(path), err)
	}

	body, length, err := i.source.DownloadAsset(ctx, asset.BrowserDownloadURL)
	if err != nil {
		return nil, fmt.Errorf("downloading %s: %w", asset.Name, err)
	}
	defer func() { _ = body.Close() }() // read-only HTTP response body

	total := asset.Size
	if total <= 0 {
		total = length
	}

	i.logger.Debug("replacing executable", "asset", asset.Name, "tag", status.Latest, "path", path)

	i.progress.Start(total)
	err = update.Apply(&progressReader{r: body, p: i.progress, want: total}, applyOpts)
	i.progress.Finish()
	if err != nil {
		if rbErr := update.RollbackError(err); rbErr != nil {
			return nil, fmt.Errorf("replacing %s failed and the previous file could not be restored: %w", path, rbErr)
		}
		return nil, fmt.Errorf("replacing %s: %w", path, err)
	}

	return result, nil
}

// Uninstall removes the executable at path.
func (i *Installer) Uninstall(path string) error {
	if err := ensurePresent(path); err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}

	i.logger.Debug("executable removed", "path", path)
	return nil
}

func ensureAbsent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return &FileExistsError{Path: path}
	case errors.Is(err, fs.ErrNotExist):
		return nil
	default:
		return fmt.Errorf("checking %s: %w", path, err)
	}
}

func ensurePresent(path string) error {
	_, err := os.Lstat(path)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return &FileNotFoundError{Path: path}
	default:
		return fmt.Errorf("checking %s: %w", path, err)
	}
}
