package constants

import "time"

// Token Settings
const (
	AccessTokenExpiry  = 15 * time.Minute
	RefreshTokenExpiry = 7 * 24 * time.Hour
	EmailTokenExpiry   = 7 * 24 * time.Hour
	UserCacheExpiry    = 15 * time.Minute
)

// Date formats
const (
	DateLayout     = "2006-01-02"
	MonthDayLayout = "01-02"
)

// BirthdayWindowDays is how many days after today the upcoming birthdays
// lookup reaches; today itself is always included.
const BirthdayWindowDays = 7
