// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrUnsupportedPlatform is the sentinel wrapped by UnsupportedPlatformError.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
	// ErrAssetNotFound is the sentinel wrapped by AssetNotFoundError.
	ErrAssetNotFound = errors.New("asset not found")
)

type (
	// UnsupportedPlatformError is returned when the asset table has no entry
	// for the running system and machine.
	UnsupportedPlatformError struct {
		Platform Platform
	}

	// AssetNotFoundError is returned when a release does not carry the asset
	// selected for this platform.
	AssetNotFoundError struct {
		Name string
		Tag  string
	}

	// FileExistsError is returned by Install when the target path is taken.
	FileExistsError struct {
		Path string
	}

	// FileNotFoundError is returned by Update and Uninstall when nothing is
	// installed at the target path.
	FileNotFoundError struct {
		Path string
	}
)

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("unsupported platform: %s", e.Platform)
}

// Unwrap returns ErrUnsupportedPlatform.
func (e *UnsupportedPlatformError) Unwrap() error { return ErrUnsupportedPlatform }

func (e *AssetNotFoundError) Error() string {
	if e.Tag == "" {
		return fmt.Sprintf("asset '%s' not found in the latest release", e.Name)
	}
	return fmt.Sprintf("asset '%s' not found in release %s", e.Name, e.Tag)
}

// Unwrap returns ErrAssetNotFound.
func (e *AssetNotFoundError) Unwrap() error { return ErrAssetNotFound }

func (e *FileExistsError) Error() string {
	return fmt.Sprintf("file '%s' already exists", e.Path)
}

// Unwrap returns fs.ErrExist.
func (e *FileExistsError) Unwrap() error { return fs.ErrExist }

func (e *FileNotFoundError) Error() string {
	return fmt.Sprintf("file '%s' does not exist", e.Path)
}

// Unwrap returns fs.ErrNotExist.
func (e *FileNotFoundError) Unwrap() error { return fs.ErrNotExist }
