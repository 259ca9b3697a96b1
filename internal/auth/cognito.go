package auth

import (
	"context"
	"errors"
	"fmt"
	"sentinelle/internal/login"
	"sentinelle/internal/secrets"

	"github.com/aws/aws-sdk-go-v2/aws"
	cognito "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider/types"
	fiberlog "github.com/gofiber/fiber/v2/log"
)

var (
	ErrChallengeRequired      = errors.New("auth: identity provider requires an unsupported challenge")
	ErrNoAuthenticationResult = errors.New("auth: identity provider returned no authentication result")
)

// Registerer creates accounts.
type Registerer interface {
	Register(ctx context.Context, creds login.Credentials) error
}

// CognitoAPI is the subset of the Cognito identity provider client used here.
type CognitoAPI interface {
	InitiateAuth(ctx context.Context, params *cognito.InitiateAuthInput, optFns ...func(*cognito.Options)) (*cognito.InitiateAuthOutput, error)
	SignUp(ctx context.Context, params *cognito.SignUpInput, optFns ...func(*cognito.Options)) (*cognito.SignUpOutput, error)
}

// Cognito authenticates email/password logins against a Cognito user pool app client
// with the USER_PASSWORD_AUTH flow.
type Cognito struct {
	api          CognitoAPI
	clientId     string
	clientSecret string
}

func NewCognito(api CognitoAPI, clientId, clientSecret string) *Cognito {
	return &Cognito{
		api:          api,
		clientId:     clientId,
		clientSecret: clientSecret,
	}
}

func (c *Cognito) Submit(ctx context.Context, creds login.Credentials) error {
	params := map[string]string{
		"USERNAME": creds.Email,
		"PASSWORD": creds.Password,
	}
	if c.clientSecret != "" {
		params["SECRET_HASH"] = secrets.CognitoSecretHash(c.clientSecret, creds.Email, c.clientId)
	}

	input := &cognito.InitiateAuthInput{
		AuthFlow:        types.AuthFlowTypeUserPasswordAuth,
		ClientId:        aws.String(c.clientId),
		AuthParameters:  params,
		UserContextData: c.userContextData(ctx),
	}

	out, err := c.api.InitiateAuth(ctx, input)
	if err != nil {
		return err
	}

	if out.ChallengeName != "" {
		return fmt.Errorf("%w: %s", ErrChallengeRequired, out.ChallengeName)
	}

	if out.AuthenticationResult == nil {
		return ErrNoAuthenticationResult
	}

	fiberlog.Debug("auth: cognito login succeeded for ", creds.Email)
	return nil
}

func (c *Cognito) Register(ctx context.Context, creds login.Credentials) error {
	input := &cognito.SignUpInput{
		ClientId: aws.String(c.clientId),
		Password: aws.String(creds.Password),
		Username: aws.String(creds.Email),
		UserAttributes: []types.AttributeType{
			{
				Name:  aws.String("email"),
				Value: aws.String(creds.Email),
			},
		},
		UserContextData: c.userContextData(ctx),
	}
	if c.clientSecret != "" {
		input.SecretHash = aws.String(secrets.CognitoSecretHash(c.clientSecret, creds.Email, c.clientId))
	}

	_, err := c.api.SignUp(ctx, input)
	return err
}

func (c *Cognito) userContextData(ctx context.Context) *types.UserContextDataType {
	ip := ClientIP(ctx)
	if ip == "" {
		return nil
	}
	return &types.UserContextDataType{
		IpAddress: aws.String(ip),
	}
}
