package service

import (
	"fmt"

	"github.com/Sternrassler/ebay-access-client/pkg/model"
	"github.com/Sternrassler/ebay-access-client/pkg/transport"
)

// TransportBuilder creates the transport and authenticator acting for one
// seller account. The authenticator may be nil.
type TransportBuilder func(dev model.DevCredentials, user model.UserCredentials) (transport.Transport, transport.Authenticator, error)

// Factory creates services for seller accounts of one registered
// application.
type Factory struct {
	dev    model.DevCredentials
	build  TransportBuilder
	config Config
}

// NewFactory creates a factory. cfg is the template for every service.
func NewFactory(dev model.DevCredentials, build TransportBuilder, cfg Config) *Factory {
	return &Factory{dev: dev, build: build, config: cfg}
}

// CreateService returns a service acting for user.
func (f *Factory) CreateService(user model.UserCredentials) (*Service, error) {
	if f.build == nil {
		return nil, fmt.Errorf("transport builder is required")
	}

	t, auth, err := f.build(f.dev, user)
	if err != nil {
		return nil, fmt.Errorf("build transport for %s: %w", user.AccountName, err)
	}

	cfg := f.config
	if auth != nil {
		cfg.Authenticator = auth
	}
	return New(t, cfg)
}

// CreateAuthService returns a service for the sign-in flow, before any
// seller account is known.
func (f *Factory) CreateAuthService() (*Service, error) {
	return f.CreateService(model.UserCredentials{AccountName: "empty", Token: "empty"})
}
