package service

import (
	"github.com/deppfellow/handyman-api/internal/lib/job"
	"github.com/deppfellow/handyman-api/internal/repository"
	"github.com/deppfellow/handyman-api/internal/server"
)

type Services struct {
	Auth    *AuthService
	Catalog *CatalogService
	Job     *job.JobService
}

// NewServices wires the business layer to the server's collaborators.
func NewServices(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var mailer WelcomeMailer
	if s.Job != nil {
		mailer = s.Job
	}

	return &Services{
		Job:     s.Job,
		Auth:    NewAuthService(s.Identity, mailer, s.Config.ResetPasswordURL()),
		Catalog: NewCatalogService(repos.Services),
	}, nil
}
