// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tran.anhvu.dev@gmail.com

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trananhvu/vidora/internal/platform/sec"
)

func newTestIssuer(t *testing.T) *sec.TokenIssuer {
	t.Helper()

	ti, err := sec.NewTokenIssuer(
		"access-secret-for-tests",
		"refresh-secret-for-tests",
		15*time.Minute,
		10*24*time.Hour,
		"vidora.app",
	)
	require.NoError(t, err)

	return ti
}

/*
TestNewTokenIssuer_Secrets rejects missing or identical secrets.
*/
func TestNewTokenIssuer_Secrets(t *testing.T) {
	tests := []struct {
		name    string
		access  string
		refresh string
		wantErr bool
	}{
		{"distinct_secrets", "a-secret", "r-secret", false},
		{"empty_access", "", "r-secret", true},
		{"empty_refresh", "a-secret", "", true},
		{"identical_secrets", "same", "same", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sec.NewTokenIssuer(tt.access, tt.refresh, time.Minute, time.Hour, "vidora.app")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

/*
TestTokenIssuer_IssueAndVerify round-trips both token kinds.
*/
func TestTokenIssuer_IssueAndVerify(t *testing.T) {
	ti := newTestIssuer(t)

	pair, err := ti.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := ti.Verify(pair.AccessToken, sec.TokenKindAccess)
	require.NoError(t, err)
	assert.Equal(t, "user-123", access.UserID)
	assert.Equal(t, "anhvu", access.Username)
	assert.Equal(t, "member", access.Role)
	assert.Equal(t, string(sec.TokenKindAccess), access.TokenType)

	refresh, err := ti.Verify(pair.RefreshToken, sec.TokenKindRefresh)
	require.NoError(t, err)
	assert.Equal(t, "user-123", refresh.UserID)
	assert.Equal(t, string(sec.TokenKindRefresh), refresh.TokenType)
}

/*
TestTokenIssuer_DistinctPerIssuance ensures back-to-back issuances never
produce identical tokens. HS256 signing is deterministic and the timestamp
claims are whole seconds, so without a unique jti two pairs minted in the
same second would be byte-identical and session rotation would silently
keep the old refresh token valid.
*/
func TestTokenIssuer_DistinctPerIssuance(t *testing.T) {
	ti := newTestIssuer(t)

	first, err := ti.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)

	second, err := ti.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)

	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)

	// Both remain independently verifiable.
	_, err = ti.Verify(first.RefreshToken, sec.TokenKindRefresh)
	assert.NoError(t, err)
	_, err = ti.Verify(second.RefreshToken, sec.TokenKindRefresh)
	assert.NoError(t, err)
}

/*
TestTokenIssuer_CrossKindRejection ensures a token of one kind is never
accepted where the other kind is expected.
*/
func TestTokenIssuer_CrossKindRejection(t *testing.T) {
	ti := newTestIssuer(t)

	pair, err := ti.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)

	_, err = ti.Verify(pair.RefreshToken, sec.TokenKindAccess)
	assert.Error(t, err, "refresh token must not verify as access")

	_, err = ti.Verify(pair.AccessToken, sec.TokenKindRefresh)
	assert.Error(t, err, "access token must not verify as refresh")
}

/*
TestTokenIssuer_Tampered rejects garbage and tokens signed elsewhere.
*/
func TestTokenIssuer_Tampered(t *testing.T) {
	ti := newTestIssuer(t)

	_, err := ti.Verify("not-a-jwt", sec.TokenKindAccess)
	assert.Error(t, err)

	other, err := sec.NewTokenIssuer("other-access", "other-refresh", time.Minute, time.Hour, "vidora.app")
	require.NoError(t, err)

	pair, err := other.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)

	_, err = ti.Verify(pair.AccessToken, sec.TokenKindAccess)
	assert.Error(t, err, "foreign signature must be rejected")
}

/*
TestTokenIssuer_Expired rejects tokens past their lifetime.
*/
func TestTokenIssuer_Expired(t *testing.T) {
	ti, err := sec.NewTokenIssuer("a-secret", "r-secret", -time.Minute, -time.Minute, "vidora.app")
	require.NoError(t, err)

	pair, err := ti.Issue("user-123", "anhvu", "member")
	require.NoError(t, err)

	_, err = ti.Verify(pair.AccessToken, sec.TokenKindAccess)
	assert.Error(t, err)
}
