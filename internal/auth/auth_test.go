package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	m := NewManager("secret-for-tests", time.Hour)

	tok, err := m.Issue("user-42", "Léa")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	u, err := m.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-42", u.ID)
	assert.Equal(t, "Léa", u.Name)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewManager("secret-for-tests", time.Hour)

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		_, err := m.Verify(bad)
		assert.ErrorIs(t, err, ErrBadToken, "token %q", bad)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewManager("secret-one", time.Hour)
	verifier := NewManager("secret-two", time.Hour)

	tok, err := issuer.Issue("user-42", "Léa")
	require.NoError(t, err)

	_, err = verifier.Verify(tok)
	assert.ErrorIs(t, err, ErrBadToken)
}

func TestVerifyRejectsExpired(t *testing.T) {
	m := NewManager("secret-for-tests", time.Minute)

	tok, err := m.Issue("user-42", "Léa")
	require.NoError(t, err)

	// Move the verifier's clock past the TTL.
	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.Verify(tok)
	assert.ErrorIs(t, err, ErrBadToken)
}
