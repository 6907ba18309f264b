package app

import (
	"fmt"

	"github.com/cosminsandu/anaf-go/internal/config"
	"github.com/cosminsandu/anaf-go/internal/logger"
	"github.com/cosminsandu/anaf-go/pkg/anaf"
)

func clientOptions(cfg *config.Config, log logger.Logger, baseURI string) []anaf.Option {
	opts := []anaf.Option{
		anaf.WithBaseURI(baseURI),
		anaf.WithEnvironment(cfg.Environment),
		anaf.WithTimeout(cfg.HTTPTimeout),
		anaf.WithLogger(log),
	}
	if cfg.UserAgent != "" {
		opts = append(opts, anaf.WithHeader("User-Agent", cfg.UserAgent))
	}
	return opts
}

// AuthorizedClient builds the OAuth e-Factura client from cfg.
func AuthorizedClient(cfg *config.Config, log logger.Logger) (*anaf.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	client, err := anaf.AuthorizedClient(cfg.AccessToken, clientOptions(cfg, log, cfg.BaseURI)...)
	if err != nil {
		return nil, fmt.Errorf("build authorized anaf client: %w", err)
	}
	return client, nil
}

// PublicClient builds the client for the unauthenticated registry endpoints.
func PublicClient(cfg *config.Config, log logger.Logger) (*anaf.Client, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	client, err := anaf.NewClient(clientOptions(cfg, log, cfg.PublicBaseURI)...)
	if err != nil {
		return nil, fmt.Errorf("build public anaf client: %w", err)
	}
	return client, nil
}
