package http

import (
	"context"
	"encoding/json"
	"net/http"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/jwt"
	"github.com/readnet/readnet/users"

	"github.com/readnet/readnet/reads/endpoints"
	"github.com/readnet/readnet/reads/services"
)

// RegisterConfigEndpoints wires the administrator configuration routes.
func RegisterConfigEndpoints(srv Server, service *services.ConfigService, authenticator *users.Authenticator, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	jwtMiddleware := jwt.Middleware(jwtKey)

	ep := endpoints.NewConfigEndpoint(service)

	getConfigHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.Get)),
		decodeGetConfigRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	setConfigHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.Set)),
		decodeSetConfigRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	srv.RegisterHandler("/readnet/v1/admin/config", "GET", getConfigHandler)
	srv.RegisterHandler("/readnet/v1/admin/config", "PUT", setConfigHandler)
}

func decodeGetConfigRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()
	return nil, nil
}

func decodeSetConfigRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		PreventDuplicateReads *bool `json:"preventDuplicateReads"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.New("invalid body", errors.BadRequest(), errors.WithCause(err))
	}
	if body.PreventDuplicateReads == nil {
		return nil, errors.New("preventDuplicateReads is required", errors.BadRequest())
	}

	req := endpoints.SetConfigRequest{
		PreventDuplicateReads: *body.PreventDuplicateReads,
	}
	return req, nil
}
