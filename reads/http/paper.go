package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	kitjwt "github.com/go-kit/kit/auth/jwt"
	kithttp "github.com/go-kit/kit/transport/http"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/jwt"
	"github.com/readnet/readnet/users"

	"github.com/readnet/readnet/reads/endpoints"
	"github.com/readnet/readnet/reads/services"
)

// RegisterPaperEndpoints wires the read-tracking routes. Paper ids are DOIs
// or URLs and may contain slashes, so they travel in the body or the query
// string, never in the path.
func RegisterPaperEndpoints(srv Server, service *services.PaperService, authenticator *users.Authenticator, jwtKey []byte) {
	opts := []kithttp.ServerOption{
		kithttp.ServerErrorEncoder(encodeError),
		kithttp.ServerBefore(kitjwt.HTTPToContext()),
	}

	jwtMiddleware := jwt.Middleware(jwtKey)

	// Create endpoint
	ep := endpoints.NewPaperEndpoint(service)

	markReadHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Mark)),
		decodeMarkReadRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	checkPaperHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Check)),
		decodeCheckRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	removeReadHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Remove)),
		decodeRemoveReadRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	searchPapersHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Authenticated(ep.Search)),
		decodeSearchRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	adminRemoveReadHandler := kithttp.NewServer(
		jwtMiddleware(authenticator.Admin(ep.AdminRemove)),
		decodeRemoveReadRequest,
		kithttp.EncodeJSONResponse,
		opts...,
	)

	// Register all handlers
	srv.RegisterHandler("/readnet/v1/reads", "POST", markReadHandler)
	srv.RegisterHandler("/readnet/v1/reads/:entryID", "DELETE", removeReadHandler)
	srv.RegisterHandler("/readnet/v1/papers/check", "GET", checkPaperHandler)
	srv.RegisterHandler("/readnet/v1/papers", "GET", searchPapersHandler)
	srv.RegisterHandler("/readnet/v1/admin/reads/:entryID", "DELETE", adminRemoveReadHandler)
}

func decodeMarkReadRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	var body struct {
		PaperID string            `json:"paperId"`
		Meta    readnet.PaperMeta `json:"metadata"`
		Notes   string            `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return nil, errors.New("invalid body", errors.BadRequest(), errors.WithCause(err))
	}

	req := endpoints.MarkReadRequest{
		PaperID: body.PaperID,
		Meta:    body.Meta,
		Notes:   body.Notes,
	}
	return req, nil
}

func decodeCheckRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	req := endpoints.CheckRequest{
		PaperID: r.URL.Query().Get("id"),
	}

	withReads := r.URL.Query().Get("reads")
	if withReads != "" {
		var err error
		req.WithReads, err = strconv.ParseBool(withReads)
		if err != nil {
			return nil, errors.New("invalid parameter: reads", errors.BadRequest(), errors.WithCause(err))
		}
	}

	return req, nil
}

func decodeRemoveReadRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := ctx.Value("params").(map[string]string)

	req := endpoints.RemoveReadRequest{
		PaperID: r.URL.Query().Get("paperId"),
		EntryID: params["entryID"],
	}
	return req, nil
}

func decodeSearchRequest(ctx context.Context, r *http.Request) (interface{}, error) {
	defer r.Body.Close()

	params := readnet.SearchParams{
		Q:      r.URL.Query().Get("q"),
		Reader: r.URL.Query().Get("reader"),
		Page:   1,
		Limit:  20,
	}

	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil, errors.New("invalid parameter: year", errors.BadRequest(), errors.WithCause(err))
		}
		params.Year = &year
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		var err error
		params.Page, err = strconv.Atoi(pageStr)
		if err != nil {
			return nil, errors.New("invalid parameter: page", errors.BadRequest(), errors.WithCause(err))
		}
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		var err error
		params.Limit, err = strconv.Atoi(limitStr)
		if err != nil {
			return nil, errors.New("invalid parameter: limit", errors.BadRequest(), errors.WithCause(err))
		}
	}

	return params, nil
}
