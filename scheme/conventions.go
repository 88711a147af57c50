// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package scheme

import "net/http"

// Content types.
const (
	ContentTypeXML         = "text/xml"
	ContentTypeJSON        = "application/json"
	ContentTypeOctetStream = "application/octet-stream"
)

// Request headers.
const (
	ContentTypeHeader = "Content-Type"
	SOAPActionHeader  = "SOAPAction"
)

// PlayReadyAcquireLicense is the SOAP action of a PlayReady license challenge.
const PlayReadyAcquireLicense = "http://schemas.microsoft.com/DRM/2007/03/protocols/AcquireLicense"

// Convention describes the headers a license server expects for a scheme.
type Convention struct {
	ContentType string

	// ActionHeader and ActionValue are sent only when both are set.
	ActionHeader string
	ActionValue  string
}

// Conventions maps schemes to their header conventions.
type Conventions map[Scheme]Convention

// DefaultConventions returns a fresh copy of the built-in convention table.
func DefaultConventions() Conventions {
	return Conventions{
		PlayReady: {
			ContentType:  ContentTypeXML,
			ActionHeader: SOAPActionHeader,
			ActionValue:  PlayReadyAcquireLicense,
		},
		ClearKey: {
			ContentType: ContentTypeJSON,
		},
		Other: {
			ContentType: ContentTypeOctetStream,
		},
	}
}

// Lookup returns the convention for s, falling back to the Other entry and
// finally to an octet-stream content type.
func (c Conventions) Lookup(s Scheme) Convention {
	if conv, ok := c[s]; ok {
		return fill(conv)
	}

	if conv, ok := c[Other]; ok {
		return fill(conv)
	}

	return Convention{ContentType: ContentTypeOctetStream}
}

// WithContentTypes returns a copy of c whose content types are replaced by
// the given ones. Action headers are kept.
func (c Conventions) WithContentTypes(types map[Scheme]string) Conventions {
	out := make(Conventions, len(c)+len(types))
	for s, conv := range c {
		out[s] = conv
	}

	for s, ct := range types {
		conv := out[s]
		conv.ContentType = ct
		out[s] = conv
	}

	return out
}

// Apply writes the headers of the convention for s into h.
func (c Conventions) Apply(s Scheme, h http.Header) {
	conv := c.Lookup(s)
	h.Set(ContentTypeHeader, conv.ContentType)
	if conv.ActionHeader != "" && conv.ActionValue != "" {
		h.Set(conv.ActionHeader, conv.ActionValue)
	}
}

func fill(conv Convention) Convention {
	if conv.ContentType == "" {
		conv.ContentType = ContentTypeOctetStream
	}

	return conv
}
