// Copyright (c) 2026 The Meridian developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reverts

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsRevertErr(t *testing.T) {
	revert := New("rejected")
	assert.Equal(t, "rejected", revert.Error())

	assert.True(t, IsRevertErr(revert))
	assert.True(t, IsRevertErr(errors.Wrap(revert, "wrapped")))

	assert.False(t, IsRevertErr(nil))
	assert.False(t, IsRevertErr(errors.New("plain")))
	assert.False(t, IsRevertErr("not an error"))
}
