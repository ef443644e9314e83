package endpoints

import (
	"context"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/reads/services"
	"github.com/readnet/readnet/users"
)

type PaperEndpoint struct {
	service *services.PaperService
}

func NewPaperEndpoint(service *services.PaperService) *PaperEndpoint {
	return &PaperEndpoint{
		service: service,
	}
}

type MarkReadRequest struct {
	PaperID string
	Meta    readnet.PaperMeta
	Notes   string
}

func (ep *PaperEndpoint) Mark(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(MarkReadRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.MarkRead(user, req.PaperID, req.Meta, req.Notes)
}

type CheckRequest struct {
	PaperID   string
	WithReads bool
}

func (ep *PaperEndpoint) Check(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(CheckRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.Check(user, req.PaperID, req.WithReads)
}

type RemoveReadRequest struct {
	PaperID string
	EntryID string
}

func (ep *PaperEndpoint) Remove(ctx context.Context, r interface{}) (interface{}, error) {
	user, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	req, ok := r.(RemoveReadRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	paper, err := ep.service.RemoveRead(user, req.PaperID, req.EntryID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": paper,
	}, nil
}

func (ep *PaperEndpoint) AdminRemove(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(RemoveReadRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	paper, err := ep.service.AdminRemoveRead(req.PaperID, req.EntryID)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data": paper,
	}, nil
}

func (ep *PaperEndpoint) Search(ctx context.Context, r interface{}) (interface{}, error) {
	params, ok := r.(readnet.SearchParams)
	if !ok {
		return nil, errInvalidRequest
	}

	res, err := ep.service.Search(params)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"data":       res.Papers,
		"pagination": res.Pagination,
	}, nil
}
