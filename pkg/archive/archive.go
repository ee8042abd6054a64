// Package archive rewrites ephemeral, platform-hosted media references into
// durable public URLs by delegating the upload to a media-hosting
// collaborator.
//
// The bridge keeps no local state; a failed call is safe to retry and a
// caller that cannot retry substitutes sentinel fields instead of dropping
// the whole message.
package archive

import (
	"context"
	"errors"
	"fmt"
)

// SentinelURL is substituted for the durable URL (and MIME type) when
// archival fails or the platform did not supply a value.
const SentinelURL = "not found"

// ErrDisabled is returned by the disabled archiver used when no hosting
// collaborator is configured.
var ErrDisabled = errors.New("media archival disabled")

// ArchivalError wraps a hosting-collaborator failure (network, expired
// source URL, quota or auth).
type ArchivalError struct {
	RemoteURL string
	Err       error
}

func (e *ArchivalError) Error() string {
	return fmt.Sprintf("archive %s: %v", e.RemoteURL, e.Err)
}

func (e *ArchivalError) Unwrap() error { return e.Err }

// Archiver turns a short-lived remote file URL into a durable public URL.
type Archiver interface {
	Archive(ctx context.Context, remoteURL, folderHint string) (string, error)
}

// Disabled is an Archiver that always fails with ErrDisabled. The pipeline
// degrades media messages to sentinel fields when it is in use.
type Disabled struct{}

func (Disabled) Archive(_ context.Context, remoteURL, _ string) (string, error) {
	return "", &ArchivalError{RemoteURL: remoteURL, Err: ErrDisabled}
}
