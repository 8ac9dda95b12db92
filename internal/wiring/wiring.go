// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/dirigent/internal/adapters/git"
	_ "go.trai.ch/dirigent/internal/adapters/logger"
	_ "go.trai.ch/dirigent/internal/adapters/markers"
	_ "go.trai.ch/dirigent/internal/adapters/optfile"
	_ "go.trai.ch/dirigent/internal/adapters/shell"
	_ "go.trai.ch/dirigent/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/dirigent/internal/app"
	_ "go.trai.ch/dirigent/internal/engine/lifecycle"
)
