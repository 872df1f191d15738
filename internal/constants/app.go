package constants

// Application Information
const (
	AppName    = "Contacts API"
	AppVersion = "1.0.0"
)

// Environment Types
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Default Application Settings
const (
	DefaultPort        = "8000"
	DefaultEnvironment = EnvDevelopment
)

// Cache Key Prefixes
const (
	CacheKeyPrefix    = "contacts:"
	CacheKeyUser      = CacheKeyPrefix + "user:"
	CacheKeyRateLimit = CacheKeyPrefix + "ratelimit:"
)
