// internal/app/features/departments/handler.go
package departments

import (
	"github.com/impactcentre/churchhub/internal/app/features/apierrors"
	departmentstore "github.com/impactcentre/churchhub/internal/app/store/departments"
	userstore "github.com/impactcentre/churchhub/internal/app/store/users"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler is the shared dependency container for the departments feature.
type Handler struct {
	Departments *departmentstore.Store
	Users       *userstore.Store
	ErrLog      *apierrors.ErrorLogger
	Log         *zap.Logger
}

// NewHandler constructs a departments Handler.
func NewHandler(db *mongo.Database, errLog *apierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Departments: departmentstore.New(db),
		Users:       userstore.New(db),
		ErrLog:      errLog,
		Log:         logger,
	}
}
