package endpoints

import (
	"context"

	"github.com/readnet/readnet/users"

	"github.com/readnet/readnet/auth/services"
)

type UserEndpoint struct {
	service *services.UserService
}

func NewUserEndpoint(s *services.UserService) UserEndpoint {
	return UserEndpoint{
		service: s,
	}
}

type NamePasswordRequest struct {
	Name     string
	Password string
}

func (ep UserEndpoint) SignUp(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(NamePasswordRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	token, err := ep.service.SignUp(req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"access_token": token}, nil
}

func (ep UserEndpoint) Login(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(NamePasswordRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	token, err := ep.service.Login(req.Name, req.Password)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{"access_token": token}, nil
}

func (ep UserEndpoint) Me(ctx context.Context, _ interface{}) (interface{}, error) {
	caller, err := users.FromContext(ctx)
	if err != nil {
		return nil, err
	}

	return ep.service.Get(caller.ID)
}

func (ep UserEndpoint) Users(ctx context.Context, _ interface{}) (interface{}, error) {
	return ep.service.List()
}

type SetAdminRequest struct {
	UserID int
	Admin  bool
}

func (ep UserEndpoint) SetAdmin(ctx context.Context, r interface{}) (interface{}, error) {
	req, ok := r.(SetAdminRequest)
	if !ok {
		return nil, errInvalidRequest
	}

	return ep.service.SetAdmin(req.UserID, req.Admin)
}
