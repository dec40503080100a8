package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/plankhq/plank/internal/auth"
	"github.com/plankhq/plank/internal/domain"
)

type RegisterInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Email address"`
		Password string `json:"password" minLength:"8" doc:"Password"`
		Name     string `json:"name" minLength:"1" maxLength:"200" doc:"Display name"`
	}
}

type RegisterOutput struct {
	Body *domain.User
}

type LoginInput struct {
	Body struct {
		Email    string `json:"email" format:"email" doc:"Email address"`
		Password string `json:"password" minLength:"1" doc:"Password"`
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
}

type LoginOutput struct {
	Body TokenPair
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token"`
	}
}

type RefreshOutput struct {
	Body TokenPair
}

func RegisterAuthRoutes(api huma.API, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		user, err := authSvc.Register(ctx, input.Body.Email, input.Body.Password, input.Body.Name)
		if err != nil {
			if errors.Is(err, auth.ErrUserAlreadyExists) {
				return nil, huma.Error409Conflict("email already registered")
			}
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}
		return &RegisterOutput{Body: user}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Log in with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		access, refresh, err := authSvc.Login(ctx, input.Body.Email, input.Body.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid credentials")
			}
			return nil, huma.Error500InternalServerError("failed to log in", err)
		}
		return &LoginOutput{Body: TokenPair{AccessToken: access, RefreshToken: refresh}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Exchange a refresh token for a new access token",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		access, err := authSvc.Refresh(ctx, input.Body.RefreshToken)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return nil, huma.Error401Unauthorized("invalid refresh token")
			}
			return nil, huma.Error500InternalServerError("failed to refresh token", err)
		}
		return &RefreshOutput{Body: TokenPair{AccessToken: access}}, nil
	})
}
