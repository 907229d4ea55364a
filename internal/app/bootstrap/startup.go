// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"github.com/impactcentre/churchhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// ChurchHub seeds the initial admin account here when admin_email and
// admin_password are configured and the account does not exist yet.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	users := userstore.New(deps.MongoDatabase)
	_, err := users.GetByEmail(ctx, appCfg.AdminEmail)
	if err == nil {
		return nil
	}
	if err != mongo.ErrNoDocuments {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(appCfg.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin, err := users.Create(ctx, models.User{
		FullName:     "Administrator",
		Email:        appCfg.AdminEmail,
		Role:         "admin",
		PasswordHash: string(hash),
	})
	if err != nil {
		return err
	}

	logger.Info("seeded initial admin account",
		zap.String("user_id", admin.ID.Hex()),
		zap.String("email", admin.Email))
	return nil
}
