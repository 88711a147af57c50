// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package requestid

import (
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var lowerHex = regexp.MustCompile(`^[0-9a-f]{32}$`)

func TestNew(t *testing.T) {
	assert := assert.New(t)
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id := New()
		assert.Regexp(lowerHex, id)
		_, dup := seen[id]
		assert.False(dup, "duplicate request id %s", id)
		seen[id] = struct{}{}
	}
}

func TestContext(t *testing.T) {
	t.Run("Test WithID, FromContext", func(t *testing.T) {
		assert := assert.New(t)
		id := New()
		ctx := WithID(context.Background(), id)
		actual, ok := FromContext(ctx)
		assert.True(ok)
		assert.Equal(id, actual)

		actual, ok = FromContext(context.Background())
		assert.False(ok)
		assert.Equal("", actual)
	})
}
