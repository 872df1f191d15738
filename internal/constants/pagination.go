package constants

// Query Parameters
const (
	QueryParamSkip         = "skip"
	QueryParamLimit        = "limit"
	QueryParamQuery        = "query"
	QueryParamBirthdayDate = "birthday_date"
)

// Default Pagination Values (as strings for query parsing)
const (
	DefaultSkip  = "0"
	DefaultLimit = "100"
)
