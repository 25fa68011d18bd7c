package httpapi

import (
	"context"
	"database/sql"
	"sync/atomic"

	"go.uber.org/zap"

	"talentmatch-engine/internal/config"
	"talentmatch-engine/internal/domain"
	"talentmatch-engine/internal/events"
	"talentmatch-engine/internal/geocode"
	"talentmatch-engine/internal/search"
	"talentmatch-engine/internal/session"
)

type Deps struct {
	DB *sql.DB

	Hub *events.Hub

	Engine *search.Orchestrator

	// Draft criteria per UI session.
	Drafts session.Store

	// Atomic store, holds config.Config
	CfgVal      *atomic.Value
	UserCfgPath string
	LoadCfg     func() (config.Config, error)

	// Coordinate resolution entrypoint (inject for testability)
	Resolve func(ctx context.Context, city, country string) *domain.Coordinate

	// Debounces location prewarming while a draft is being edited.
	Debounce *geocode.Debouncer

	Log *zap.Logger
}
