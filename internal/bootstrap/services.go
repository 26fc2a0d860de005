package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/ispconfig-auth/internal/client"
	"github.com/go-authgate/ispconfig-auth/internal/config"
	"github.com/go-authgate/ispconfig-auth/internal/core"
	"github.com/go-authgate/ispconfig-auth/internal/identity"
	"github.com/go-authgate/ispconfig-auth/internal/ispconfig"
	"github.com/go-authgate/ispconfig-auth/internal/services"
	"github.com/go-authgate/ispconfig-auth/internal/store"
)

// initializeRemoteClient creates the panel client on top of the JSON transport
func initializeRemoteClient(cfg *config.Config, m core.Recorder) (*ispconfig.Client, error) {
	retryClient, err := client.CreateRetryClient(client.Options{
		Timeout:            cfg.ISPConfigTimeout,
		InsecureSkipVerify: cfg.ISPConfigInsecureSkipVerify,
		MaxRetries:         cfg.ISPConfigMaxRetries,
		RetryDelay:         cfg.ISPConfigRetryDelay,
		MaxRetryDelay:      cfg.ISPConfigMaxRetryDelay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ISPConfig HTTP client: %w", err)
	}

	transport := ispconfig.NewJSONTransport(cfg.ISPConfigLocation, retryClient, m)
	log.Printf("ISPConfig remote API: %s (timeout: %s, retries: %d)",
		cfg.ISPConfigLocation, cfg.ISPConfigTimeout, cfg.ISPConfigMaxRetries)
	if cfg.ISPConfigInsecureSkipVerify {
		log.Println("Warning: TLS verification of the ISPConfig remote API is disabled")
	}

	return ispconfig.NewClient(
		transport,
		cfg.ISPConfigRemoteUser,
		cfg.ISPConfigRemotePassword,
		m,
	), nil
}

// initializeBackend creates the user backend and its collaborators
func initializeBackend(
	cfg *config.Config,
	db *store.Store,
	policy *config.DomainPolicy,
	names core.Cache[string],
	m core.Recorder,
) (*services.UserBackend, error) {
	remote, err := initializeRemoteClient(cfg, m)
	if err != nil {
		return nil, err
	}

	return services.NewUserBackend(
		db,
		remote,
		identity.NewMapper(policy.Rules(), cfg.UIDMappingEnabled),
		policy,
		services.NewProvisioner(db, m),
		names,
		m,
		services.BackendOptions{
			LoginNameFallback:   cfg.LoginNameFallback,
			DisplayNameCacheTTL: cfg.UserCacheTTL,
		},
	), nil
}
