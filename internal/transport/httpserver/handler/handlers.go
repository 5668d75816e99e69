package handler

import (
	chatdomain "community-app-go/internal/domain/chat"
	profiledomain "community-app-go/internal/domain/profile"
	taxonomydomain "community-app-go/internal/domain/taxonomy"
	"community-app-go/pkg/logger"
)

type Handlers struct {
	Profiles *profiledomain.Service
	Chat     *chatdomain.Service
	Taxonomy *taxonomydomain.Service
	log      logger.Logger
}

func New(profiles *profiledomain.Service, chat *chatdomain.Service, taxonomy *taxonomydomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Profiles: profiles,
		Chat:     chat,
		Taxonomy: taxonomy,
		log:      log,
	}
}
