package endpoints

import (
	"context"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/reads/services"
)

type ConfigEndpoint struct {
	service *services.ConfigService
}

func NewConfigEndpoint(service *services.ConfigService) *ConfigEndpoint {
	return &ConfigEndpoint{
		service: service,
	}
}

func (ep *ConfigEndpoint) Get(ctx context.Context, _ interface{}) (interface{}, error) {
	return ep.service.Get()
}

type SetConfigRequest struct {
	PreventDuplicateReads bool
}

func (ep *ConfigEndpoint) Set(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(SetConfigRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.Set(readnet.Config{PreventDuplicateReads: req.PreventDuplicateReads})
}
