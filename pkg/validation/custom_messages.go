package validation

// CustomMessage returns the per-tag messages of a request field, keyed by its
// JSON name. Fields without an entry fall back to DefaultMessage.
func CustomMessage(field string) map[string]string {
	var customValidationMessages = map[string]map[string]string{
		"email": {
			"required": "email must not be empty",
			"email":    "email is not a valid email address",
			"max":      "email must be at most 255 characters",
		},
		"username": {
			"required": "username must not be empty",
			"email":    "username must be the account email address",
			"min":      "username must be at least 2 characters",
			"max":      "username must be at most 50 characters",
		},
		"password": {
			"required": "password must not be empty",
			"min":      "password must be at least 6 characters",
			"max":      "password must be at most 72 characters",
		},
		"first_name": {
			"required": "first_name must not be empty",
			"max":      "first_name must be at most 50 characters",
		},
		"last_name": {
			"required": "last_name must not be empty",
			"max":      "last_name must be at most 50 characters",
		},
		"phone": {
			"required": "phone must not be empty",
			"max":      "phone must be at most 20 characters",
		},
		"birthday_date": {
			"required": "birthday_date is required, expected YYYY-MM-DD",
		},
	}
	return customValidationMessages[field]
}
