package database

import (
	"github.com/Payphone-Digital/contacts-api/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// contactIndexes back the owner-scoped listing and the ILIKE search. The
// trigram indexes need pg_trgm; when the extension cannot be created they
// are skipped and search falls back to a sequential scan.
var contactIndexes = []string{
	"CREATE INDEX IF NOT EXISTS idx_contacts_user_id_id ON contacts(user_id, id);",
	"CREATE EXTENSION IF NOT EXISTS pg_trgm;",
	"CREATE INDEX IF NOT EXISTS idx_contacts_first_name_trgm ON contacts USING GIN (first_name gin_trgm_ops);",
	"CREATE INDEX IF NOT EXISTS idx_contacts_last_name_trgm ON contacts USING GIN (last_name gin_trgm_ops);",
	"CREATE INDEX IF NOT EXISTS idx_contacts_email_trgm ON contacts USING GIN (email gin_trgm_ops);",
}

// EnsureIndexes creates the indexes AutoMigrate cannot express. Failures are
// logged and do not stop startup.
func EnsureIndexes(db *gorm.DB) int {
	created := 0
	for _, stmt := range contactIndexes {
		if err := db.Exec(stmt).Error; err != nil {
			logger.GetLogger().Warn("Failed to create index",
				zap.String("statement", stmt),
				zap.Error(err),
			)
			continue
		}
		created++
	}
	return created
}
