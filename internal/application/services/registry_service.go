// Package services contains the application-layer services that orchestrate
// domain logic over the repository interfaces.
package services

import (
	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
)

// RegistryService exposes the block-type registry to the presentation layer.
type RegistryService struct {
	registry *schema.Registry
	logger   *logging.ChanneledLogger
}

// NewRegistryService creates a registry service over the built-in schemas.
func NewRegistryService(registry *schema.Registry, logger *logging.ChanneledLogger) *RegistryService {
	return &RegistryService{registry: registry, logger: logger}
}

// Registry returns the underlying schema registry.
func (s *RegistryService) Registry() *schema.Registry {
	return s.registry
}

// ListSchemas returns every registered block-type schema in registration
// order; this backs the editor's mod library panel.
func (s *RegistryService) ListSchemas() []*schema.BlockTypeSchema {
	return s.registry.All()
}

// GetSchema looks up one block-type schema by its type id.
func (s *RegistryService) GetSchema(typeID string) (*schema.BlockTypeSchema, bool) {
	return s.registry.Lookup(typeID)
}
