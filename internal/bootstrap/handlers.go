package bootstrap

import (
	"github.com/go-authgate/ispconfig-auth/internal/handlers"
	"github.com/go-authgate/ispconfig-auth/internal/services"
)

// handlerSet holds all HTTP handlers
type handlerSet struct {
	backend *handlers.BackendHandler
}

// initializeHandlers creates all HTTP handlers
func initializeHandlers(backend *services.UserBackend) handlerSet {
	return handlerSet{
		backend: handlers.NewBackendHandler(backend),
	}
}
