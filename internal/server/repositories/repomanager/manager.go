package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/promptify/internal/dbx"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/grants"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/profiles"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/prompts"
	"github.com/dmitrijs2005/promptify/internal/server/repositories/secrets"
)

// RepositoryManager vends repositories bound to a DBTX, so the same service
// code runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Profiles(db dbx.DBTX) profiles.Repository
	Prompts(db dbx.DBTX) prompts.Repository
	Grants(db dbx.DBTX) grants.Repository
	Secrets(db dbx.DBTX) secrets.Repository
}
