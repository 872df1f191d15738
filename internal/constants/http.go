package constants

// HTTP Header Names
const (
	HeaderContentType      = "Content-Type"
	HeaderAuthorization    = "Authorization"
	HeaderWWWAuthenticate  = "WWW-Authenticate"
	HeaderUserAgent        = "User-Agent"
	HeaderXRequestID       = "X-Request-ID"
	HeaderRetryAfter       = "Retry-After"
	HeaderXRateLimitLimit  = "X-RateLimit-Limit"
	HeaderXRateLimitRemain = "X-RateLimit-Remaining"
	HeaderXRateLimitReset  = "X-RateLimit-Reset"
	AuthSchemeBearer       = "Bearer"
	TokenTypeBearer        = "bearer"
)

// HTTP Content Types
const (
	ContentTypeJSON      = "application/json"
	ContentTypeForm      = "application/x-www-form-urlencoded"
	ContentTypeMultipart = "multipart/form-data"
)

// Common HTTP Error Messages
const (
	MsgNotAuthenticated   = "Not authenticated"
	MsgInvalidRequestBody = "Invalid request body"
	MsgInvalidContactID   = "Invalid contact id"
	MsgTooManyRequests    = "Too Many Requests"
	MsgInternalError      = "Internal server error"
	MsgServiceUnavailable = "Service temporarily unavailable"
	MsgMissingQuery       = "query parameter is required"
	MsgMissingAvatarFile  = "file is required"
)

// HTTP Success Messages
const (
	MsgHelloWorld            = "Hello World"
	MsgUserCreated           = "User successfully created. Check your email for confirmation."
	MsgEmailConfirmed        = "Email confirmed"
	MsgEmailAlreadyConfirmed = "Your email is already confirmed"
	MsgCheckEmail            = "Check your email for confirmation."
)
