// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminalHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(NewTerminalHandler(out, false))
	l.Info("stake recorded", "amount", big.NewInt(500), "note", "first deposit")

	line := out.String()
	assert.Contains(t, line, "INFO ")
	assert.Contains(t, line, "stake recorded")
	assert.Contains(t, line, "amount=500")
	assert.Contains(t, line, `note="first deposit"`)
}

func TestTerminalHandlerLevel(t *testing.T) {
	out := new(bytes.Buffer)
	var lvl slog.LevelVar
	lvl.Set(LevelWarn)
	l := NewLogger(NewTerminalHandlerWithLevel(out, &lvl, false))

	l.Info("hidden")
	assert.Empty(t, out.String())

	l.Warn("shown")
	assert.Contains(t, out.String(), "shown")
}

func TestJSONHandler(t *testing.T) {
	out := new(bytes.Buffer)
	l := NewLogger(JSONHandler(out))
	l.Debug("unstake", "amount", uint256.NewInt(42))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &rec))
	assert.Equal(t, "debug", rec["lvl"])
	assert.Equal(t, "unstake", rec["msg"])
	assert.Equal(t, "42", rec["amount"])
}

func TestWithContextFollowsRoot(t *testing.T) {
	prev := Root()
	defer SetDefault(prev)

	pkgLogger := WithContext("pkg", "staker")

	out := new(bytes.Buffer)
	SetDefault(NewLogger(NewTerminalHandler(out, false)))
	pkgLogger.Info("pool initialized")

	assert.Contains(t, out.String(), "pkg=staker")
	assert.Contains(t, out.String(), "pool initialized")
}

func TestFromLegacyLevel(t *testing.T) {
	assert.Equal(t, LevelCrit, FromLegacyLevel(0))
	assert.Equal(t, LevelInfo, FromLegacyLevel(3))
	assert.Equal(t, LevelTrace, FromLegacyLevel(9))
	assert.Equal(t, "warn", LevelString(FromLegacyLevel(2)))
}
