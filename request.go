// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package drmlicense

import (
	"context"

	"github.com/xmidt-org/drmlicense/scheme"
)

// KeyRequest carries an opaque key exchange payload from the DRM subsystem.
type KeyRequest struct {
	// Data is posted unmodified.
	Data []byte

	// LicenseServerURL is the server the DRM subsystem suggests. (Optional).
	LicenseServerURL string
}

// ProvisionRequest carries an opaque device provisioning payload.
type ProvisionRequest struct {
	// DefaultURL is the provisioning server.
	DefaultURL string

	// Data is sent as the signedRequest query parameter.
	Data []byte
}

// Callback performs provisioning and key requests on behalf of a DRM
// session.
type Callback interface {
	// ExecuteProvisionRequest returns the provisioning response.
	ExecuteProvisionRequest(context.Context, scheme.Scheme, ProvisionRequest) ([]byte, error)

	// ExecuteKeyRequest returns the license.
	ExecuteKeyRequest(context.Context, scheme.Scheme, KeyRequest) ([]byte, error)
}
