package password_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"ofcoz/shared/password"
)

func TestHash(t *testing.T) {
	hash, err := password.Hash("whiskers-2026")
	require.NoError(t, err)

	assert.NotEqual(t, "whiskers-2026", hash)
	assert.True(t, strings.HasPrefix(hash, "$2a$"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, password.Cost, cost)

	again, err := password.Hash("whiskers-2026")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salted hashes should differ")
}

func TestHash_Rejects(t *testing.T) {
	_, err := password.Hash("")
	assert.ErrorIs(t, err, password.ErrEmptyPassword)

	_, err = password.Hash(strings.Repeat("m", 73))
	assert.ErrorIs(t, err, password.ErrTooLong)
}

func TestVerify(t *testing.T) {
	hash, err := password.Hash("whiskers-2026")
	require.NoError(t, err)

	tests := []struct {
		name    string
		plain   string
		hash    string
		wantErr error
	}{
		{name: "match", plain: "whiskers-2026", hash: hash},
		{name: "mismatch", plain: "Whiskers-2026", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty password", plain: "", hash: hash, wantErr: password.ErrInvalidPassword},
		{name: "empty hash", plain: "whiskers-2026", hash: "", wantErr: password.ErrInvalidPassword},
		{name: "truncated hash", plain: "whiskers-2026", hash: "$2a$", wantErr: password.ErrInvalidPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := password.Verify(tt.plain, tt.hash)
			if tt.wantErr == nil {
				assert.NoError(t, err)

				return
			}

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNeedsRehash(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("whiskers-2026"), bcrypt.MinCost)
	require.NoError(t, err)

	current, err := password.Hash("whiskers-2026")
	require.NoError(t, err)

	assert.True(t, password.NeedsRehash(string(weak)))
	assert.False(t, password.NeedsRehash(current))
	assert.False(t, password.NeedsRehash("not-a-hash"))
}
