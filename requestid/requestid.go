// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package requestid

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
)

// Size is the number of random bytes in a request ID.
const Size = 16

// Key is the query parameter, header and log field name of a request ID.
const Key = "logRequestId"

// New returns 16 random bytes rendered as 32 lowercase hex characters.
func New() string {
	var b [Size]byte
	if _, err := io.ReadFull(rand.Reader, b[:]); err != nil {
		panic(fmt.Sprintf("requestid: reading random bytes: %v", err))
	}

	return hex.EncodeToString(b[:])
}
