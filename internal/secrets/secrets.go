package secrets

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"os"
)

type Secrets interface {
	CognitoClientSecret() string
	GoogleClientSecret() string
}

func New() Secrets {
	return &secrets{
		cognitoClientSecret: os.Getenv("COGNITO_CLIENT_SECRET"),
		googleClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
	}
}

// Static returns Secrets with fixed values, for tests and tooling.
func Static(cognitoClientSecret, googleClientSecret string) Secrets {
	return &secrets{
		cognitoClientSecret: cognitoClientSecret,
		googleClientSecret:  googleClientSecret,
	}
}

type secrets struct {
	cognitoClientSecret string
	googleClientSecret  string
}

func (s secrets) CognitoClientSecret() string {
	return s.cognitoClientSecret
}

func (s secrets) GoogleClientSecret() string {
	return s.googleClientSecret
}

// CognitoSecretHash computes the SECRET_HASH parameter Cognito requires for app clients
// that have a client secret: base64(HMAC-SHA256(secret, username + clientId)).
func CognitoSecretHash(clientSecret, username, clientId string) string {
	mac := hmac.New(sha256.New, []byte(clientSecret))
	mac.Write([]byte(username + clientId))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
