package secrets

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCognitoSecretHash(t *testing.T) {
	mac := hmac.New(sha256.New, []byte("s3cret"))
	mac.Write([]byte("john.doe@mail.com" + "client-1"))
	want := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	assert.Equal(t, want, CognitoSecretHash("s3cret", "john.doe@mail.com", "client-1"))
	assert.NotEqual(t, want, CognitoSecretHash("other", "john.doe@mail.com", "client-1"))
}

func TestNewReadsEnvironment(t *testing.T) {
	t.Setenv("COGNITO_CLIENT_SECRET", "cognito")
	t.Setenv("GOOGLE_CLIENT_SECRET", "google")

	s := New()
	assert.Equal(t, "cognito", s.CognitoClientSecret())
	assert.Equal(t, "google", s.GoogleClientSecret())
}
