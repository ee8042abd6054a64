package archive

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/superstream-live/streamrelay/pkg/config"
)

// CloudinaryArchiver uploads remote files to Cloudinary and returns the
// hosted URL. Durability is entirely the collaborator's concern.
type CloudinaryArchiver struct {
	client        *cloudinary.Cloudinary
	defaultFolder string
}

// NewCloudinaryArchiver builds an archiver from config. Returns an error if
// credentials are incomplete; callers that want graceful degradation fall
// back to Disabled.
func NewCloudinaryArchiver(cfg config.CloudinaryConfig) (*CloudinaryArchiver, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("cloudinary credentials incomplete")
	}

	client, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}

	folder := cfg.Folder
	if folder == "" {
		folder = "super-stream"
	}

	return &CloudinaryArchiver{client: client, defaultFolder: folder}, nil
}

// Archive uploads the file behind remoteURL and returns its durable URL.
// folderHint overrides the configured folder when non-empty. A single
// upload attempt, no local side effects.
func (a *CloudinaryArchiver) Archive(ctx context.Context, remoteURL, folderHint string) (string, error) {
	if strings.TrimSpace(remoteURL) == "" {
		return "", &ArchivalError{RemoteURL: remoteURL, Err: errors.New("empty source URL")}
	}

	folder := a.defaultFolder
	if folderHint != "" {
		folder = folderHint
	}

	resp, err := a.client.Upload.Upload(ctx, remoteURL, uploader.UploadParams{
		PublicID:     publicIDFor(remoteURL),
		Folder:       folder,
		ResourceType: "auto",
	})
	if err != nil {
		return "", &ArchivalError{RemoteURL: remoteURL, Err: err}
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	if url == "" {
		return "", &ArchivalError{RemoteURL: remoteURL, Err: errors.New("upload returned no URL")}
	}
	return url, nil
}

// publicIDFor derives a stable public ID from the source file name so
// re-archiving the same platform file overwrites instead of duplicating.
// Empty when the URL has no usable path; the host then generates one.
func publicIDFor(remoteURL string) string {
	u, err := url.Parse(remoteURL)
	if err != nil {
		return ""
	}
	base := path.Base(u.Path)
	if base == "." || base == "/" {
		return ""
	}
	return strings.TrimSuffix(base, path.Ext(base))
}
