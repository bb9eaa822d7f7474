package attempt

import (
	"time"

	"github.com/saulo-duarte/testbank-api/internal/session"
	"github.com/saulo-duarte/testbank-api/internal/testbank"
	"gorm.io/gorm"
)

type Container struct {
	Handler *Handler
	Service Service
	Repo    Repository
}

func NewContainer(db *gorm.DB, tests testbank.Repository, sessions *session.Manager, directory Directory, grace time.Duration) *Container {
	repo := NewRepository(db)
	service := NewService(repo, tests, sessions, directory, grace)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
		Repo:    repo,
	}
}
