package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/jwt"
	"github.com/readnet/readnet/users"

	"github.com/readnet/readnet/auth/endpoints"
	"github.com/readnet/readnet/auth/services"
)

func RegisterUserEndpoints(srv Server, service *services.UserService, authenticator *users.Authenticator, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	jwtMiddleware := jwt.Middleware(jwtKey)

	ep := endpoints.NewUserEndpoint(service)

	signUpHandler := kithttp.NewServer(
		ep.SignUp,
		decodeNamePasswordRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	loginHandler := kithttp.NewServer(
		ep.Login,
		decodeNamePasswordRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	meHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Me)),
		decodeMeRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	usersHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.Users)),
		decodeUsersRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	setAdminHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.SetAdmin)),
		decodeSetAdminRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Routes
	srv.RegisterHandler("/auth/v1/signup", "POST", signUpHandler)
	srv.RegisterHandler("/auth/v1/login", "POST", loginHandler)
	srv.RegisterHandler("/auth/v1/me", "GET", meHandler)
	srv.RegisterHandler("/auth/v1/users", "GET", usersHandler)
	srv.RegisterHandler("/auth/v1/users/:id/admin", "POST", setAdminHandler)
}

func decodeNamePasswordRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		Name     string `json:"name"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.New("invalid body", errors.BadRequest(), errors.WithCause(err))
	}

	return endpoints.NamePasswordRequest{
		Name:     body.Name,
		Password: body.Password,
	}, nil
}

func decodeMeRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func decodeUsersRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func decodeSetAdminRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := ctx.Value("params").(map[string]string)
	userID, err := strconv.Atoi(params["id"])
	if err != nil {
		return nil, errors.New("id should be an integer", errors.BadRequest(), errors.WithCause(err))
	}

	var body struct {
		Admin *bool `json:"admin"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.New("invalid body", errors.BadRequest(), errors.WithCause(err))
	}
	if body.Admin == nil {
		return nil, errors.New("admin is required", errors.BadRequest())
	}

	return endpoints.SetAdminRequest{
		UserID: userID,
		Admin:  *body.Admin,
	}, nil
}
