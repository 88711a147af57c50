// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package scheme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrUnknownScheme = errors.New("unknown DRM scheme")

// Scheme identifies the DRM system that produced a key request.
type Scheme int

const (
	// Other is any scheme without a dedicated convention.
	Other Scheme = iota
	Widevine
	PlayReady
	ClearKey
)

// System IDs as registered with the DASH Industry Forum.
var (
	WidevineUUID  = uuid.MustParse("edef8ba9-79d6-4ace-a3c8-27dcd51d21ed")
	PlayReadyUUID = uuid.MustParse("9a04f079-9840-4286-ab92-e65be0885f95")
	ClearKeyUUID  = uuid.MustParse("e2719d58-a985-b3c9-781a-b030af78d30e")
)

var names = map[Scheme]string{
	Other:     "other",
	Widevine:  "widevine",
	PlayReady: "playready",
	ClearKey:  "clearkey",
}

// FromUUID maps a DRM system ID to its Scheme. Unrecognized IDs map to Other.
func FromUUID(id uuid.UUID) Scheme {
	switch id {
	case WidevineUUID:
		return Widevine
	case PlayReadyUUID:
		return PlayReady
	case ClearKeyUUID:
		return ClearKey
	default:
		return Other
	}
}

// UUID returns the system ID of s, or uuid.Nil for Other.
func (s Scheme) UUID() uuid.UUID {
	switch s {
	case Widevine:
		return WidevineUUID
	case PlayReady:
		return PlayReadyUUID
	case ClearKey:
		return ClearKeyUUID
	default:
		return uuid.Nil
	}
}

func (s Scheme) String() string {
	if n, ok := names[s]; ok {
		return n
	}

	return fmt.Sprintf("scheme(%d)", int(s))
}

// Parse accepts either a scheme name (case insensitive) or a system ID.
func Parse(text string) (Scheme, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	for s, n := range names {
		if n == t {
			return s, nil
		}
	}

	id, err := uuid.Parse(t)
	if err != nil {
		return Other, fmt.Errorf("%w: %q", ErrUnknownScheme, text)
	}

	return FromUUID(id), nil
}

func (s Scheme) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}

	*s = parsed
	return nil
}
