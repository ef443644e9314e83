package users

import (
	"context"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	"github.com/go-kit/kit/endpoint"

	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/jwt"
)

var (
	contextKey = "user"
)

// User is the verified caller identity placed in the context by the
// Authenticator. Name is the identity string stamped on reads.
type User struct {
	ID      int
	Name    string
	IsAdmin bool
}

func FromContext(ctx context.Context) (User, error) {
	v := ctx.Value(contextKey)
	if v == nil {
		return User{}, errors.New("no user", errors.WithCode(http.StatusUnauthorized))
	}

	user, ok := v.(User)
	if !ok {
		return User{}, errors.New("invalid user", errors.WithCode(http.StatusUnauthorized))
	}

	return user, nil
}

func extractUserID(ctx context.Context) (int, error) {
	claims := ctx.Value(kitjwt.JWTClaimsContextKey)
	if claims == nil {
		return 0, errors.New("no user", errors.WithCode(http.StatusUnauthorized))
	}

	rnClaims, ok := claims.(*jwt.Claims)
	if !ok {
		return 0, errors.New("invalid claims", errors.WithCode(http.StatusUnauthorized))
	}

	return rnClaims.UserID, nil
}

// Service resolves a user id from validated claims to an account.
type Service interface {
	Get(id int) (User, error)
}

type Authenticator struct {
	service Service
}

func NewAuthenticator(s Service) *Authenticator {
	return &Authenticator{
		service: s,
	}
}

// Authenticated resolves the caller behind the token and makes it available
// in the context.
func (a *Authenticator) Authenticated(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		userID, err := extractUserID(ctx)
		if err != nil {
			return nil, err
		}

		user, err := a.service.Get(userID)
		if err != nil {
			return nil, err
		}

		ctx = context.WithValue(ctx, contextKey, user)
		return next(ctx, req)
	}
}

// Admin is Authenticated restricted to administrator accounts.
func (a *Authenticator) Admin(next endpoint.Endpoint) endpoint.Endpoint {
	return func(ctx context.Context, req interface{}) (interface{}, error) {
		userID, err := extractUserID(ctx)
		if err != nil {
			return nil, err
		}

		user, err := a.service.Get(userID)
		if err != nil {
			return nil, err
		}

		if !user.IsAdmin {
			return nil, errors.New("admin only", errors.WithCode(http.StatusForbidden))
		}

		ctx = context.WithValue(ctx, contextKey, user)
		return next(ctx, req)
	}
}
