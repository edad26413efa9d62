package nns

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/tranvictor/nns/names"
)

const (
	CacheControlMetadata = "public, s-maxage=300, stale-while-revalidate=600"
	CacheControlFallback = "public, s-maxage=60"
)

type MetadataOptions struct {
	// ExternalURL is the site a document links back to, with the label
	// passed as the domain query parameter.
	ExternalURL string
	// DefaultImageURL is used when the name has no avatar. The formatted
	// name is appended as the text query parameter.
	DefaultImageURL string
}

// MetadataDocument is the NFT metadata of a registered name token.
type MetadataDocument struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	ExternalURL string      `json:"external_url,omitempty"`
	Attributes  []Attribute `json:"attributes"`
}

type Attribute struct {
	TraitType   string      `json:"trait_type"`
	DisplayType string      `json:"display_type,omitempty"`
	Value       interface{} `json:"value"`
}

func (o MetadataOptions) defaultImage(name string) string {
	base := o.DefaultImageURL
	if base == "" {
		base = "https://via.placeholder.com/500x500/4F46E5/FFFFFF"
	}
	return fmt.Sprintf("%s?text=%s", base, url.QueryEscape(name))
}

func (o MetadataOptions) externalURL(label string) string {
	if o.ExternalURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/?domain=%s", strings.TrimRight(o.ExternalURL, "/"), url.QueryEscape(label))
}

func baseAttributes(tld names.TLD, label string) []Attribute {
	return []Attribute{
		{TraitType: "Domain", Value: tld.Format(label)},
		{TraitType: "TLD", Value: tld.Suffix()},
		{TraitType: "Length", Value: len(label)},
	}
}

// BuildMetadata projects a profile into its metadata document. profile may
// be nil for an unregistered name. The registration date is derived from
// the expiry and the registration period, now is used when unknown.
func BuildMetadata(tld names.TLD, label string, profile *Profile, period uint64, opts MetadataOptions, now time.Time) *MetadataDocument {
	name := tld.Format(label)
	doc := &MetadataDocument{
		Name:        name,
		Description: fmt.Sprintf("%s - A decentralized domain on Nexus Name Service", name),
		Image:       opts.defaultImage(name),
		ExternalURL: opts.externalURL(label),
	}
	registered := now.Unix()
	if profile != nil {
		if profile.Avatar != nil {
			doc.Image = *profile.Avatar
		}
		if profile.Expires != nil && profile.Expires.IsInt64() && profile.Expires.Int64() > int64(period) {
			registered = profile.Expires.Int64() - int64(period)
		}
	}
	doc.Attributes = append(baseAttributes(tld, label),
		Attribute{TraitType: "Character Set", Value: names.CharacterSet(label)},
		Attribute{TraitType: "Registration Date", DisplayType: "date", Value: registered},
	)
	if profile != nil && profile.Twitter != nil {
		doc.Attributes = append(doc.Attributes, Attribute{TraitType: "Twitter", Value: *profile.Twitter})
	}
	if profile != nil && profile.Telegram != nil {
		doc.Attributes = append(doc.Attributes, Attribute{TraitType: "Telegram", Value: *profile.Telegram})
	}
	return doc
}

// FallbackMetadata is served when the chain could not be read.
func FallbackMetadata(tld names.TLD, label string, opts MetadataOptions) *MetadataDocument {
	name := tld.Format(label)
	return &MetadataDocument{
		Name:        name,
		Description: fmt.Sprintf("%s - A decentralized domain on Nexus Name Service", name),
		Image:       opts.defaultImage(name),
		Attributes:  baseAttributes(tld, label),
	}
}

// Metadata returns the document of name and whether it is the fallback
// one. Any non empty name gets a document, registrable or not. Only an
// empty name is an error.
func (s *Service) Metadata(ctx context.Context, name string) (*MetadataDocument, bool, error) {
	label := s.tld.Label(name)
	if label == "" {
		return nil, false, &ValidationError{Label: label, Rule: names.RuleTooShort}
	}
	profile, err := s.profile(ctx, label)
	if err != nil {
		s.l.Warn("serving fallback metadata", zap.String("label", label), zap.Error(err))
		return FallbackMetadata(s.tld, label, s.metadata), true, nil
	}
	return BuildMetadata(s.tld, label, profile, s.duration.Uint64(), s.metadata, time.Now()), false, nil
}
