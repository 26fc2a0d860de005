package bootstrap

import (
	"fmt"
	"log"

	"github.com/go-authgate/ispconfig-auth/internal/config"
)

// validateAllConfiguration validates all configuration settings
func validateAllConfiguration(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.ISPConfigRemotePassword == "" {
		log.Println("Warning: ISPCONFIG_REMOTE_PASSWORD is empty")
	}
	if cfg.APISecret == "" {
		log.Println("Warning: API_SECRET is empty, /api/v1 is not authenticated")
	}
	return nil
}

// initializeDomainPolicy loads the allowed domains and per-domain options
func initializeDomainPolicy(cfg *config.Config) (*config.DomainPolicy, error) {
	policy, err := cfg.LoadDomainPolicy()
	if err != nil {
		return nil, err
	}

	domains := policy.Domains()
	switch {
	case len(policy.AllowedDomains) == 0:
		log.Printf("Domain policy: all domains allowed, %d with options", len(domains))
	default:
		log.Printf(
			"Domain policy: %d allowed domains, %d with options",
			len(policy.AllowedDomains),
			len(domains),
		)
	}
	if !cfg.UIDMappingEnabled {
		log.Println("UID mapping disabled: local ids are full mail addresses")
	}
	return policy, nil
}
