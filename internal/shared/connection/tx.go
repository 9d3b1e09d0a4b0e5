package connection

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
)

// BindTx returns a session that runs on tx when one is given. Repositories
// use it so that a service-owned *sql.Tx covers their gorm statements.
func BindTx(ctx context.Context, db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.WithContext(ctx)
	if tx != nil {
		session.Statement.ConnPool = tx
	}
	return session
}
