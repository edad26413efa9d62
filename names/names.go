// Package names holds the label rules of the naming service: how user input
// is normalized into a registrable label and a fully qualified name, and
// which labels may be registered at all.
package names

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	MinLabelLength = 3
	MaxLabelLength = 63
)

var labelCharset = regexp.MustCompile(`^[a-z0-9-]+$`)

// TLD is the single top level label every name is registered under.
type TLD string

// Nexus is the TLD of the deployed registry.
const Nexus TLD = "nexus"

func (t TLD) String() string {
	return string(t)
}

// Suffix returns the TLD with its leading dot, e.g. ".nexus".
func (t TLD) Suffix() string {
	return "." + string(t)
}

// Label lowercases name and strips one trailing TLD suffix if present.
// "Alice.NEXUS" and "alice" both yield "alice".
func (t TLD) Label(name string) string {
	lower := strings.ToLower(name)
	return strings.TrimSuffix(lower, strings.ToLower(t.Suffix()))
}

// Format returns the fully qualified lowercase name, e.g. "alice.nexus".
func (t TLD) Format(name string) string {
	return t.Label(name) + t.Suffix()
}

// ValidationError reports a label that breaks one of the registration rules.
// Messages are fixed per rule so they can be shown to users as is.
type ValidationError struct {
	Label string
	Rule  Rule
}

type Rule int

const (
	RuleTooShort Rule = iota
	RuleTooLong
	RuleCharset
	RuleHyphenEdge
	RuleWhitespace
)

var ruleMessages = map[Rule]string{
	RuleTooShort:   fmt.Sprintf("name must be at least %d characters", MinLabelLength),
	RuleTooLong:    fmt.Sprintf("name must be at most %d characters", MaxLabelLength),
	RuleCharset:    "name may only contain lowercase letters, digits and hyphens",
	RuleHyphenEdge: "name cannot start or end with a hyphen",
	RuleWhitespace: "value cannot contain spaces",
}

func (r Rule) Message() string {
	return ruleMessages[r]
}

func (e *ValidationError) Error() string {
	return e.Rule.Message()
}

// Validate checks label against the registration rules: 3 to 63 characters
// from [a-z0-9-], not starting or ending with a hyphen. The label must not
// carry the TLD suffix.
func Validate(label string) error {
	if len(label) < MinLabelLength {
		return &ValidationError{label, RuleTooShort}
	}
	if len(label) > MaxLabelLength {
		return &ValidationError{label, RuleTooLong}
	}
	if !labelCharset.MatchString(label) {
		return &ValidationError{label, RuleCharset}
	}
	if strings.HasPrefix(label, "-") || strings.HasSuffix(label, "-") {
		return &ValidationError{label, RuleHyphenEdge}
	}
	return nil
}

func IsValid(label string) bool {
	return Validate(label) == nil
}

// ValidateTextValue rejects text record values containing spaces.
func ValidateTextValue(value string) error {
	if strings.Contains(value, " ") {
		return &ValidationError{value, RuleWhitespace}
	}
	return nil
}

// CharacterSet classifies a label by the kinds of characters it uses.
func CharacterSet(label string) string {
	hasDigit := strings.ContainsAny(label, "0123456789")
	hasLetter := strings.ContainsAny(label, "abcdefghijklmnopqrstuvwxyz")
	hasHyphen := strings.Contains(label, "-")

	switch {
	case hasDigit && hasLetter && hasHyphen:
		return "Alphanumeric + Hyphen"
	case hasDigit && hasLetter:
		return "Alphanumeric"
	case hasDigit:
		return "Numeric"
	case hasLetter && hasHyphen:
		return "Letters + Hyphen"
	default:
		return "Letters"
	}
}
