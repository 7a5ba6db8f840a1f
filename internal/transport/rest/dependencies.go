package rest

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/access-request/api"
	"github.com/frahmantamala/access-request/internal"
	"github.com/frahmantamala/access-request/internal/accessrequest"
	accessRequestPostgres "github.com/frahmantamala/access-request/internal/accessrequest/postgres"
	"github.com/frahmantamala/access-request/internal/auth"
	authPostgres "github.com/frahmantamala/access-request/internal/auth/postgres"
	"github.com/frahmantamala/access-request/internal/database"
	"github.com/frahmantamala/access-request/internal/software"
	softwarePostgres "github.com/frahmantamala/access-request/internal/software/postgres"
	"github.com/frahmantamala/access-request/internal/transport"
	"github.com/frahmantamala/access-request/internal/transport/middleware"
	"github.com/frahmantamala/access-request/internal/user"
	userPostgres "github.com/frahmantamala/access-request/internal/user/postgres"
	"gorm.io/gorm"
)

// Handlers is everything the router mounts.
type Handlers struct {
	DB             *sql.DB
	Driver         string
	AllowedOrigins []string
	MaxBodyBytes   int64
	Logger         *slog.Logger

	// OpenAPI rejects requests that do not match the published document
	OpenAPI func(http.Handler) http.Handler

	Auth          *auth.Handler
	RBAC          *auth.RBACAuthorization
	User          *user.Handler
	Software      *software.Handler
	AccessRequest *accessrequest.Handler
	Health        *HealthHandler
}

// NewHandlers builds repositories, services and handlers over one database pool.
func NewHandlers(db *gorm.DB, cfg *internal.Config, logger *slog.Logger) (*Handlers, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlxDB, err := database.SQLX(db, cfg.Database.Driver)
	if err != nil {
		return nil, fmt.Errorf("wrap sqlx: %w", err)
	}

	base := transport.NewBaseHandler(logger)

	doc, err := api.Load(context.Background())
	if err != nil {
		return nil, err
	}
	validator, err := middleware.OpenAPIValidator(doc, "/api", base)
	if err != nil {
		return nil, err
	}

	tokenGen := auth.NewJWTTokenGenerator(cfg.Security.JWTSecret, cfg.Security.JWTIssuer, cfg.Security.AccessTokenDuration)
	authService := auth.NewService(authPostgres.NewRepository(db), tokenGen, cfg.Security.BCryptCost, logger)

	softwareRepo := softwarePostgres.NewSoftwareRepository(db)
	requestRepo := accessRequestPostgres.NewAccessRequestRepository(db)

	softwareService := software.NewService(softwareRepo, requestRepo, logger)
	requestService := accessrequest.NewService(requestRepo, softwareRepo, logger)
	userService := user.NewService(userPostgres.NewRepository(sqlxDB), logger)

	return &Handlers{
		DB:             sqlDB,
		Driver:         cfg.Database.Driver,
		AllowedOrigins: cfg.Server.Origins(),
		MaxBodyBytes:   cfg.Server.BodyLimit(),
		Logger:         logger,
		OpenAPI:        validator,

		Auth:          auth.NewHandler(base, authService),
		RBAC:          auth.NewRBACAuthorization(auth.NewCapabilityChecker(nil), base),
		User:          user.NewHandler(base, userService),
		Software:      software.NewHandler(base, softwareService),
		AccessRequest: accessrequest.NewHandler(base, requestService),
		Health:        NewHealthHandler(base, sqlDB, cfg.Database.Driver),
	}, nil
}
