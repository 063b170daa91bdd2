package kv

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/vendo/internal/interfaces"
)

// Service provides business logic for runtime parameter operations
type Service struct {
	storage interfaces.KeyValueStorage
	logger  arbor.ILogger
}

// NewService creates a new parameter store service
func NewService(storage interfaces.KeyValueStorage, logger arbor.ILogger) *Service {
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// Get retrieves a value by key
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	value, err := s.storage.Get(ctx, key)
	if err != nil {
		if err != interfaces.ErrKeyNotFound {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to get parameter")
		}
		return "", err
	}
	return value, nil
}

// GetOrDefault retrieves a value by key, falling back to def when the key is
// absent. Storage failures still propagate.
func (s *Service) GetOrDefault(ctx context.Context, key, def string) (string, error) {
	value, err := s.storage.Get(ctx, key)
	if err == interfaces.ErrKeyNotFound {
		return def, nil
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return def, nil
	}
	return value, nil
}

// Set stores or updates a parameter
func (s *Service) Set(ctx context.Context, key, value, description string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}

	if err := s.storage.Set(ctx, key, value, description); err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to store parameter")
		return err
	}

	s.logger.Info().Str("key", key).Msg("Stored parameter")
	return nil
}

// Delete removes a parameter
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.storage.Delete(ctx, key); err != nil {
		if err != interfaces.ErrKeyNotFound {
			s.logger.Error().Err(err).Str("key", key).Msg("Failed to delete parameter")
		}
		return err
	}

	s.logger.Info().Str("key", key).Msg("Deleted parameter")
	return nil
}

// List returns all parameters
func (s *Service) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	pairs, err := s.storage.List(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to list parameters")
		return nil, err
	}
	return pairs, nil
}
