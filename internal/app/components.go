package app

import (
	"go.trai.ch/dirigent/internal/core/ports"
)

// Components contains the initialized application components. It provides
// controlled access to what the CLI layer needs.
type Components struct {
	App    *App
	Logger ports.Logger
}
