package services

import (
	"github.com/readnet/readnet"
)

// ConfigService exposes the duplicate-prevention flag to administrators.
type ConfigService struct {
	repository readnet.ConfigRepository
}

func NewConfigService(repo readnet.ConfigRepository) *ConfigService {
	return &ConfigService{
		repository: repo,
	}
}

func (s *ConfigService) Get() (readnet.Config, error) {
	return s.repository.Get()
}

func (s *ConfigService) Set(cfg readnet.Config) (readnet.Config, error) {
	return s.repository.Set(cfg)
}
