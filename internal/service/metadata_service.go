package service

import (
	"context"
	"strings"
	"time"

	"github.com/whisperbox/whisperbox-backend/internal/domain"
)

// IPResolver resolves a best-effort public IP. Implementations never fail;
// they return a sentinel such as "unknown" instead.
type IPResolver interface {
	Resolve(ctx context.Context) string
}

// ClientEnv is the request environment of a visitor
type ClientEnv struct {
	UserAgent      string
	AcceptLanguage string
	PlatformHint   string // Sec-CH-UA-Platform
	Referrer       string
	RemoteIP       string
	Client         domain.ClientInfo
}

// MetadataCollector builds sender metadata records
type MetadataCollector struct {
	resolver      IPResolver
	trustClientIP bool
	now           func() time.Time
}

// NewMetadataCollector creates a MetadataCollector. With trustClientIP the
// request's own client IP is used and the resolver is skipped.
func NewMetadataCollector(resolver IPResolver, trustClientIP bool) *MetadataCollector {
	return &MetadataCollector{
		resolver:      resolver,
		trustClientIP: trustClientIP,
		now:           time.Now,
	}
}

// Collect captures the full metadata record. It always returns a record.
func (c *MetadataCollector) Collect(ctx context.Context, env ClientEnv) *domain.SenderMetadata {
	language := env.Client.Language
	if language == "" {
		language = firstLanguageTag(env.AcceptLanguage)
	}
	platform := env.Client.Platform
	if platform == "" {
		platform = strings.Trim(env.PlatformHint, `"`)
	}

	return &domain.SenderMetadata{
		Timestamp:        c.now().UTC().Format(time.RFC3339),
		UserAgent:        env.UserAgent,
		Language:         language,
		Platform:         platform,
		ScreenResolution: env.Client.ScreenResolution,
		Timezone:         env.Client.Timezone,
		IPAddress:        c.ResolveIP(ctx, env),
	}
}

// ResolveIP returns the visitor IP through the configured strategy
func (c *MetadataCollector) ResolveIP(ctx context.Context, env ClientEnv) string {
	if c.trustClientIP && env.RemoteIP != "" {
		return env.RemoteIP
	}
	if c.resolver == nil {
		return "unknown"
	}
	return c.resolver.Resolve(ctx)
}

func firstLanguageTag(header string) string {
	if header == "" {
		return ""
	}
	first := strings.SplitN(header, ",", 2)[0]
	return strings.TrimSpace(strings.SplitN(first, ";", 2)[0])
}
