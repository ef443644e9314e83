package services

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/readnet/readnet"
	"github.com/readnet/readnet/errors"
	"github.com/readnet/readnet/users"
)

type Encoder interface {
	Encode(int) (string, error)
}

type UserService struct {
	repository readnet.UserRepository

	encoder Encoder
}

func NewUserService(repo readnet.UserRepository, encoder Encoder) *UserService {
	return &UserService{
		repository: repo,
		encoder:    encoder,
	}
}

func (s *UserService) SignUp(name, password string) (string, error) {
	if name == "" || password == "" {
		return "", errors.New("name and password are required", errors.BadRequest())
	}

	user, err := s.repository.GetByName(name)
	if err != nil {
		return "", err
	} else if user.ID != 0 {
		return "", errors.New("name already taken", errors.BadRequest())
	}

	user = readnet.User{
		Name: name,
		Salt: randToken(64),
	}

	// Generate hash to store from user password
	hash, err := bcrypt.GenerateFromPassword([]byte(password+user.Salt), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	user.PasswordHash = string(hash)

	if err := s.repository.Upsert(&user); err != nil {
		return "", err
	}

	return s.encoder.Encode(user.ID)
}

func (s *UserService) Login(name, password string) (string, error) {
	user, err := s.repository.GetByName(name)
	if err != nil {
		return "", err
	} else if user.ID == 0 {
		return "", errLoginIncorrect
	}

	// Comparing the password with the hash
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password+user.Salt)); err != nil {
		return "", errLoginIncorrect
	}

	return s.encoder.Encode(user.ID)
}

func (s *UserService) Get(id int) (readnet.User, error) {
	user, err := s.repository.Get(id)
	if err != nil {
		return readnet.User{}, err
	}

	if user.ID == 0 {
		return readnet.User{}, errUserNotFound(id)
	}
	return user, nil
}

func (s *UserService) List() ([]readnet.User, error) {
	return s.repository.List()
}

func (s *UserService) SetAdmin(id int, admin bool) (readnet.User, error) {
	user, err := s.Get(id)
	if err != nil {
		return readnet.User{}, err
	}

	user.IsAdmin = admin
	if err := s.repository.Upsert(&user); err != nil {
		return readnet.User{}, err
	}

	return user, nil
}

// Token issues a token for an existing user, without a password check. It
// backs the CLI, not a route.
func (s *UserService) Token(id int) (string, error) {
	user, err := s.Get(id)
	if err != nil {
		return "", err
	}

	return s.encoder.Encode(user.ID)
}

// Verifier exposes accounts as caller identities for the endpoint
// middlewares.
type Verifier struct {
	service *UserService
}

func NewVerifier(s *UserService) *Verifier {
	return &Verifier{service: s}
}

func (v *Verifier) Get(id int) (users.User, error) {
	user, err := v.service.Get(id)
	if err != nil {
		return users.User{}, err
	}

	return users.User{
		ID:      user.ID,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
	}, nil
}
