package account

import (
	"github.com/saulo-duarte/testbank-api/internal/auth"
	"gorm.io/gorm"
)

type Container struct {
	Handler   *Handler
	Service   Service
	Repo      Repository
	Directory *Directory
}

func NewContainer(db *gorm.DB, authHandler *auth.Handler, google *GoogleAuth) *Container {
	repo := NewRepository(db)
	service := NewService(repo)
	handler := NewHandler(service, authHandler, google)

	return &Container{
		Handler:   handler,
		Service:   service,
		Repo:      repo,
		Directory: NewDirectory(repo),
	}
}
