package app

import (
	"net/http"

	"community-app-go/internal/clients/moderation"
	"community-app-go/internal/config"
	"community-app-go/internal/db"
	chatdomain "community-app-go/internal/domain/chat"
	profiledomain "community-app-go/internal/domain/profile"
	taxonomydomain "community-app-go/internal/domain/taxonomy"
	userdomain "community-app-go/internal/domain/user"
	"community-app-go/internal/repository/inmemory"
	chatrepo "community-app-go/internal/repository/postgres/chat"
	profilerepo "community-app-go/internal/repository/postgres/profile"
	taxonomyrepo "community-app-go/internal/repository/postgres/taxonomy"
	userrepo "community-app-go/internal/repository/postgres/user"
	"community-app-go/internal/transport/httpserver"
	"community-app-go/internal/transport/httpserver/handler"
	"community-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	moderator := moderation.NewClient(cfg.Moderation, log)

	profiles := profiledomain.NewService(profilerepo.NewPostgres(dbConn), moderator, profiledomain.DirectoryOptions{
		DefaultPageSize: cfg.Directory.DefaultPageSize,
		MaxPageSize:     cfg.Directory.MaxPageSize,
		IDBatchSize:     cfg.Directory.IDBatchSize,
	})
	chat := chatdomain.NewService(chatrepo.NewPostgres(dbConn), moderator, users, profiles, log)
	taxonomy := taxonomydomain.NewService(taxonomyrepo.NewPostgres(dbConn), users, inmemory.NewInMemoryTagsCache())

	log.Info("app: initializing router")
	handlers := handler.New(profiles, chat, taxonomy, log)
	router := httpserver.NewRouter(cfg, handlers, users, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
