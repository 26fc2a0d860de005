package identity

import (
	"fmt"
	"strings"
)

// RuleKind enumerates the per-domain mapping variants.
type RuleKind int

const (
	// RuleBareName maps the local id to the mailbox unchanged.
	RuleBareName RuleKind = iota + 1
	// RulePrefix maps the local id to prefix + mailbox.
	RulePrefix
	// RuleSuffix maps the local id to mailbox + suffix.
	RuleSuffix
)

func (k RuleKind) String() string {
	switch k {
	case RuleBareName:
		return "bare-name"
	case RulePrefix:
		return "uid-prefix"
	case RuleSuffix:
		return "uid-suffix"
	default:
		return "none"
	}
}

// MappingRule converts between a remote mailbox and a local account id.
type MappingRule struct {
	Kind  RuleKind
	Affix string // prefix or suffix, unused for bare names
}

// BareName returns a rule using the mailbox as local id.
func BareName() MappingRule {
	return MappingRule{Kind: RuleBareName}
}

// Prefix returns a rule prepending p to the mailbox.
func Prefix(p string) MappingRule {
	return MappingRule{Kind: RulePrefix, Affix: strings.ToLower(p)}
}

// Suffix returns a rule appending s to the mailbox.
func Suffix(s string) MappingRule {
	return MappingRule{Kind: RuleSuffix, Affix: strings.ToLower(s)}
}

// LocalID applies the forward transform to a mailbox.
func (r MappingRule) LocalID(mailbox string) string {
	switch r.Kind {
	case RulePrefix:
		return r.Affix + mailbox
	case RuleSuffix:
		return mailbox + r.Affix
	default:
		return mailbox
	}
}

// Mailbox applies the inverse transform to a local id.
// It reports false when the id does not match the rule's pattern or
// when stripping the affix leaves nothing.
func (r MappingRule) Mailbox(localID string) (string, bool) {
	var mailbox string
	switch r.Kind {
	case RuleBareName:
		mailbox = localID
	case RulePrefix:
		m, ok := strings.CutPrefix(localID, r.Affix)
		if !ok {
			return "", false
		}
		mailbox = m
	case RuleSuffix:
		m, ok := strings.CutSuffix(localID, r.Affix)
		if !ok {
			return "", false
		}
		mailbox = m
	default:
		return "", false
	}
	if mailbox == "" || strings.Contains(mailbox, "@") {
		return "", false
	}
	return mailbox, true
}

// Validate checks that prefix and suffix rules carry an affix.
func (r MappingRule) Validate() error {
	switch r.Kind {
	case RuleBareName:
		return nil
	case RulePrefix, RuleSuffix:
		if r.Affix == "" {
			return fmt.Errorf("%s rule requires a non-empty value", r.Kind)
		}
		if strings.Contains(r.Affix, "@") {
			return fmt.Errorf("%s rule must not contain '@'", r.Kind)
		}
		return nil
	default:
		return fmt.Errorf("unknown mapping rule kind %d", r.Kind)
	}
}

func (r MappingRule) String() string {
	if r.Kind == RuleBareName {
		return r.Kind.String()
	}
	return fmt.Sprintf("%s(%q)", r.Kind, r.Affix)
}

// DomainRule binds a mapping rule to a mail domain.
type DomainRule struct {
	Domain string
	Rule   MappingRule
}
