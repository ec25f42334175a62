// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/studybuddyhq/studybuddy/internal/app/store/indexes"
	"github.com/studybuddyhq/studybuddy/internal/app/store/oauthstate"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema creates the indexes the stores rely on. Index creation is
// idempotent, so this runs on every startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		return err
	}
	return oauthstate.New(deps.MongoDatabase).EnsureIndexes(ctx)
}
