package auth

import (
	"context"
	"errors"
	"sentinelle/internal/login"
	"sentinelle/internal/secrets"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCognito struct {
	initiateInput *cognito.InitiateAuthInput
	initiateOut   *cognito.InitiateAuthOutput
	initiateErr   error

	signUpInput *cognito.SignUpInput
	signUpErr   error
}

func (f *fakeCognito) InitiateAuth(ctx context.Context, params *cognito.InitiateAuthInput, optFns ...func(*cognito.Options)) (*cognito.InitiateAuthOutput, error) {
	f.initiateInput = params
	return f.initiateOut, f.initiateErr
}

func (f *fakeCognito) SignUp(ctx context.Context, params *cognito.SignUpInput, optFns ...func(*cognito.Options)) (*cognito.SignUpOutput, error) {
	f.signUpInput = params
	return &cognito.SignUpOutput{}, f.signUpErr
}

var creds = login.Credentials{Email: "john.doe@mail.com", Password: "abc123"}

func TestCognitoSubmit(t *testing.T) {
	api := &fakeCognito{initiateOut: &cognito.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{AccessToken: aws.String("token")},
	}}
	c := NewCognito(api, "client-1", "")

	ctx := WithClientIP(context.Background(), "203.0.113.7")
	require.NoError(t, c.Submit(ctx, creds))

	in := api.initiateInput
	require.NotNil(t, in)
	assert.Equal(t, types.AuthFlowTypeUserPasswordAuth, in.AuthFlow)
	assert.Equal(t, "client-1", aws.ToString(in.ClientId))
	assert.Equal(t, map[string]string{"USERNAME": "john.doe@mail.com", "PASSWORD": "abc123"}, in.AuthParameters)
	require.NotNil(t, in.UserContextData)
	assert.Equal(t, "203.0.113.7", aws.ToString(in.UserContextData.IpAddress))
}

func TestCognitoSubmitWithClientSecret(t *testing.T) {
	api := &fakeCognito{initiateOut: &cognito.InitiateAuthOutput{
		AuthenticationResult: &types.AuthenticationResultType{},
	}}
	c := NewCognito(api, "client-1", "s3cret")

	require.NoError(t, c.Submit(context.Background(), creds))
	assert.Equal(t,
		secrets.CognitoSecretHash("s3cret", "john.doe@mail.com", "client-1"),
		api.initiateInput.AuthParameters["SECRET_HASH"])
	assert.Nil(t, api.initiateInput.UserContextData)
}

func TestCognitoSubmitFailures(t *testing.T) {
	notAuthorized := &types.NotAuthorizedException{Message: aws.String("Incorrect username or password.")}

	tests := []struct {
		name string
		api  *fakeCognito
		want error
	}{
		{"rejected", &fakeCognito{initiateErr: notAuthorized}, notAuthorized},
		{"challenge", &fakeCognito{initiateOut: &cognito.InitiateAuthOutput{
			ChallengeName: types.ChallengeNameTypeNewPasswordRequired,
		}}, ErrChallengeRequired},
		{"no result", &fakeCognito{initiateOut: &cognito.InitiateAuthOutput{}}, ErrNoAuthenticationResult},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewCognito(tt.api, "client-1", "").Submit(context.Background(), creds)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestCognitoRegister(t *testing.T) {
	api := &fakeCognito{}
	c := NewCognito(api, "client-1", "s3cret")

	require.NoError(t, c.Register(context.Background(), creds))

	in := api.signUpInput
	require.NotNil(t, in)
	assert.Equal(t, "john.doe@mail.com", aws.ToString(in.Username))
	assert.Equal(t, "abc123", aws.ToString(in.Password))
	require.Len(t, in.UserAttributes, 1)
	assert.Equal(t, "email", aws.ToString(in.UserAttributes[0].Name))
	assert.Equal(t, secrets.CognitoSecretHash("s3cret", "john.doe@mail.com", "client-1"), aws.ToString(in.SecretHash))

	api.signUpErr = &types.UsernameExistsException{Message: aws.String("exists")}
	var exists *types.UsernameExistsException
	assert.ErrorAs(t, c.Register(context.Background(), creds), &exists)
}

func TestLogOnlyAcceptsEverything(t *testing.T) {
	assert.NoError(t, LogOnly{}.Submit(context.Background(), creds))
	assert.NoError(t, LogOnly{}.Register(context.Background(), creds))
}
