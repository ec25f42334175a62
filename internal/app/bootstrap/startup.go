// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/studybuddyhq/studybuddy/internal/app/resources"
	subjectstore "github.com/studybuddyhq/studybuddy/internal/app/store/subjects"
	"github.com/studybuddyhq/studybuddy/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It loads
// the shared layout templates and seeds the default subject list.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	if err := subjectstore.New(deps.MongoDatabase).Seed(ctx, models.DefaultSubjects); err != nil {
		return err
	}
	logger.Info("subject catalog seeded", zap.Int("subjects", len(models.DefaultSubjects)))
	return nil
}
