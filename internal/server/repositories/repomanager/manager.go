package repomanager

import (
	"context"
	"database/sql"

	"github.com/bgv-platform/auth-service/internal/dbx"
	"github.com/bgv-platform/auth-service/internal/server/repositories/refreshtokens"
	"github.com/bgv-platform/auth-service/internal/server/repositories/resettokens"
	"github.com/bgv-platform/auth-service/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so the same
// repository code runs against *sql.DB or inside a *sql.Tx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	ResetTokens(db dbx.DBTX) resettokens.Repository
}
