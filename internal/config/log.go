package config

import (
	pkglogger "github.com/whisperbox/whisperbox-backend/pkg/logger"
)

// LogResolved prints the effective configuration with secrets masked
func LogResolved(cfg *Config) {
	pkglogger.GetLogger().Info().
		Str("env", cfg.Server.Env).
		Int("port", cfg.Server.Port).
		Str("db_host", cfg.Database.Host).
		Int("db_port", cfg.Database.Port).
		Str("db_name", cfg.Database.Name).
		Str("db_password", mask(cfg.Database.Password)).
		Str("redis", cfg.Redis.Host).
		Int("redis_port", cfg.Redis.Port).
		Str("jwt_secret", mask(cfg.JWT.Secret)).
		Bool("storage_enabled", cfg.Storage.Enabled).
		Str("storage_bucket", cfg.Storage.Bucket).
		Str("storage_secret", mask(cfg.Storage.SecretAccessKey)).
		Str("auth_provider", cfg.AuthProvider.URL).
		Str("auth_provider_key", mask(cfg.AuthProvider.APIKey)).
		Str("ip_lookup_primary", cfg.IPLookup.PrimaryURL).
		Str("ip_lookup_fallback", cfg.IPLookup.FallbackURL).
		Bool("trust_client_ip", cfg.IPLookup.TrustClientIP).
		Bool("capture_registered_metadata", cfg.Messages.CaptureRegisteredMetadata).
		Str("cors", cfg.CORS.AllowOrigins).
		Msg("configuration resolved")
}

func mask(secret string) string {
	if secret == "" {
		return "(empty)"
	}
	if len(secret) <= 4 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-2:]
}
