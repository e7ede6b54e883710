// Spott - Social Map-Centric Place Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/spott

package storage

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/tomtom215/spott/internal/config"
	"github.com/tomtom215/spott/internal/fault"
	"github.com/tomtom215/spott/internal/logging"
)

// PhotoMirror copies a remote photo into storage Spott controls and returns
// the URL clients should use.
type PhotoMirror interface {
	Mirror(ctx context.Context, locationID string, index int, sourceURL string) (string, error)
}

// New returns a CloudinaryMirror when credentials are configured and a
// PassthroughMirror otherwise.
func New(cfg *config.StorageConfig) (PhotoMirror, error) {
	if !cfg.Enabled() {
		logging.Info().Msg("Photo storage not configured, keeping source URLs")
		return PassthroughMirror{}, nil
	}
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initialize cloudinary: %w", err)
	}
	logging.Info().Str("cloud", cfg.CloudName).Str("folder", cfg.Folder).Msg("Mirroring place photos to Cloudinary")
	return NewCloudinaryMirror(&cld.Upload, cfg.Folder), nil
}

// PassthroughMirror returns the source URL unchanged.
type PassthroughMirror struct{}

// Mirror implements PhotoMirror.
func (PassthroughMirror) Mirror(_ context.Context, _ string, _ int, sourceURL string) (string, error) {
	return sourceURL, nil
}

// uploadAPI is the part of *uploader.API the mirror uses.
type uploadAPI interface {
	Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error)
}

// CloudinaryMirror uploads photos by URL; Cloudinary fetches the source itself.
type CloudinaryMirror struct {
	api    uploadAPI
	folder string
}

// NewCloudinaryMirror builds a mirror that stores photos under folder/<locationID>.
func NewCloudinaryMirror(u uploadAPI, folder string) *CloudinaryMirror {
	return &CloudinaryMirror{api: u, folder: folder}
}

// Mirror implements PhotoMirror. The public id is derived from the location
// and photo index, so re-enriching a location overwrites its old photos.
func (m *CloudinaryMirror) Mirror(ctx context.Context, locationID string, index int, sourceURL string) (string, error) {
	const op = "storage.Mirror"
	if sourceURL == "" {
		return "", fault.E(op, fault.KindInvalid, errors.New("empty source url"))
	}

	res, err := m.api.Upload(ctx, sourceURL, uploader.UploadParams{
		Folder:    path.Join(m.folder, locationID),
		PublicID:  fmt.Sprintf("photo-%d", index),
		Overwrite: api.Bool(true),
	})
	if err != nil {
		kind := fault.KindUnavailable
		if ctx.Err() != nil {
			kind = fault.KindOf(ctx.Err())
		}
		return "", fault.E(op, kind, fmt.Errorf("upload photo %d of %s: %w", index, locationID, err))
	}
	if res == nil {
		return "", fault.E(op, fault.KindUnavailable, errors.New("empty upload result"))
	}
	if res.Error.Message != "" {
		return "", fault.E(op, fault.KindInvalid, fmt.Errorf("upload photo %d of %s: %s", index, locationID, res.Error.Message))
	}
	if res.SecureURL == "" {
		return "", fault.E(op, fault.KindUnavailable, errors.New("no secure url returned"))
	}
	return res.SecureURL, nil
}
