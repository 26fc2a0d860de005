package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/go-authgate/ispconfig-auth/internal/identity"

	"gopkg.in/yaml.v3"
)

// DomainOptions holds the settings configured for a single mail domain.
type DomainOptions struct {
	Rule        *identity.MappingRule // nil: addresses map to local ids verbatim
	Quota       string
	Groups      []string // nil: inherit the global default groups
	Preferences map[string]map[string]string
}

// DomainPolicy decides which domains may log in and what a new account
// receives. Domain order follows the configuration file.
type DomainPolicy struct {
	AllowedDomains []string // lowercase; empty allows every domain
	DefaultQuota   string
	DefaultGroups  []string
	Preferences    map[string]map[string]string

	order   []string
	domains map[string]DomainOptions
}

type domainFile struct {
	AllowedDomains []string                     `yaml:"allowed_domains"`
	DefaultQuota   string                       `yaml:"default_quota"`
	DefaultGroups  []string                     `yaml:"default_groups"`
	Preferences    map[string]map[string]string `yaml:"preferences"`
	Domains        yaml.Node                    `yaml:"domains"`
}

type domainEntry struct {
	BareName    bool                         `yaml:"bare-name"`
	UIDPrefix   string                       `yaml:"uid-prefix"`
	UIDSuffix   string                       `yaml:"uid-suffix"`
	Quota       string                       `yaml:"quota"`
	Groups      *[]string                    `yaml:"groups"`
	Preferences map[string]map[string]string `yaml:"preferences"`
}

// LoadDomainPolicy builds the policy from the environment settings and, when
// DOMAIN_CONFIG_FILE is set, the YAML file on top of them.
func (c *Config) LoadDomainPolicy() (*DomainPolicy, error) {
	policy := &DomainPolicy{
		AllowedDomains: lowerAll(c.AllowedDomains),
		DefaultQuota:   c.DefaultQuota,
		DefaultGroups:  slices.Clone(c.DefaultGroups),
		domains:        map[string]DomainOptions{},
	}
	if c.DomainConfigFile == "" {
		return policy, nil
	}

	data, err := os.ReadFile(c.DomainConfigFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read domain config: %w", err)
	}
	if err := policy.parse(data); err != nil {
		return nil, fmt.Errorf("invalid domain config %s: %w", c.DomainConfigFile, err)
	}
	return policy, nil
}

// ParseDomainPolicy parses a YAML domain configuration document.
func ParseDomainPolicy(data []byte) (*DomainPolicy, error) {
	policy := &DomainPolicy{domains: map[string]DomainOptions{}}
	if err := policy.parse(data); err != nil {
		return nil, err
	}
	return policy, nil
}

func (p *DomainPolicy) parse(data []byte) error {
	var file domainFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return err
	}

	if len(file.AllowedDomains) > 0 {
		p.AllowedDomains = lowerAll(file.AllowedDomains)
	}
	if file.DefaultQuota != "" {
		p.DefaultQuota = file.DefaultQuota
	}
	if file.DefaultGroups != nil {
		p.DefaultGroups = file.DefaultGroups
	}
	if file.Preferences != nil {
		p.Preferences = file.Preferences
	}

	if file.Domains.Kind == 0 {
		return nil
	}
	if file.Domains.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: domains must be a mapping", file.Domains.Line)
	}

	for i := 0; i+1 < len(file.Domains.Content); i += 2 {
		keyNode, valueNode := file.Domains.Content[i], file.Domains.Content[i+1]
		domain := strings.ToLower(strings.TrimSpace(keyNode.Value))
		if domain == "" {
			return fmt.Errorf("line %d: empty domain name", keyNode.Line)
		}
		if _, dup := p.domains[domain]; dup {
			return fmt.Errorf("line %d: duplicate domain %q", keyNode.Line, domain)
		}

		var entry domainEntry
		if err := valueNode.Decode(&entry); err != nil {
			return fmt.Errorf("domain %q: %w", domain, err)
		}
		opts, err := entry.options()
		if err != nil {
			return fmt.Errorf("domain %q: %w", domain, err)
		}

		p.order = append(p.order, domain)
		p.domains[domain] = opts
	}
	return nil
}

func (e domainEntry) options() (DomainOptions, error) {
	var rules []identity.MappingRule
	if e.BareName {
		rules = append(rules, identity.BareName())
	}
	if e.UIDPrefix != "" {
		rules = append(rules, identity.Prefix(e.UIDPrefix))
	}
	if e.UIDSuffix != "" {
		rules = append(rules, identity.Suffix(e.UIDSuffix))
	}
	if len(rules) > 1 {
		return DomainOptions{}, errors.New("only one of bare-name, uid-prefix, uid-suffix may be set")
	}

	opts := DomainOptions{
		Quota:       e.Quota,
		Preferences: e.Preferences,
	}
	if e.Groups != nil {
		opts.Groups = *e.Groups
		if opts.Groups == nil {
			opts.Groups = []string{}
		}
	}
	if len(rules) == 1 {
		if err := rules[0].Validate(); err != nil {
			return DomainOptions{}, err
		}
		opts.Rule = &rules[0]
	}
	return opts, nil
}

// Allowed reports whether users of domain may log in.
func (p *DomainPolicy) Allowed(domain string) bool {
	if len(p.AllowedDomains) == 0 {
		return true
	}
	return slices.Contains(p.AllowedDomains, strings.ToLower(domain))
}

// Domains returns the configured domains in file order.
func (p *DomainPolicy) Domains() []string {
	return slices.Clone(p.order)
}

// Options returns the settings of a configured domain.
func (p *DomainPolicy) Options(domain string) (DomainOptions, bool) {
	opts, ok := p.domains[strings.ToLower(domain)]
	return opts, ok
}

// Rules returns the identity mapping rules in file order.
func (p *DomainPolicy) Rules() []identity.DomainRule {
	var rules []identity.DomainRule
	for _, domain := range p.order {
		if rule := p.domains[domain].Rule; rule != nil {
			rules = append(rules, identity.DomainRule{Domain: domain, Rule: *rule})
		}
	}
	return rules
}

// DefaultsFor resolves the account defaults of a domain. Per-domain values
// win over global ones; groups fall back to the global default groups and
// otherwise to an empty list. A domain's preferences replace the global set.
func (p *DomainPolicy) DefaultsFor(domain string) identity.AccountDefaults {
	opts, _ := p.Options(domain)

	defaults := identity.AccountDefaults{
		Quota:  p.DefaultQuota,
		Groups: []string{},
	}
	if opts.Quota != "" {
		defaults.Quota = opts.Quota
	}
	switch {
	case opts.Groups != nil:
		defaults.Groups = slices.Clone(opts.Groups)
	case p.DefaultGroups != nil:
		defaults.Groups = slices.Clone(p.DefaultGroups)
	}

	prefs := p.Preferences
	if opts.Preferences != nil {
		prefs = opts.Preferences
	}
	if prefs != nil {
		defaults.Preferences = make(map[string]map[string]string, len(prefs))
		for app, values := range prefs {
			defaults.Preferences[app] = maps.Clone(values)
		}
	}
	return defaults
}

func lowerAll(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}
