package repository

import (
	"github.com/deppfellow/handyman-api/internal/server"
)

// Repositories groups every repository so services receive one value.
type Repositories struct {
	Services *ServiceRepository
}

// NewRepositories builds the repositories on top of the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Services: NewServiceRepository(s.DB.Pool),
	}
}
