package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/itchan-dev/msgboard/backend/internal/handler"
	"github.com/itchan-dev/msgboard/backend/internal/service"
	"github.com/itchan-dev/msgboard/backend/internal/storage"
	"github.com/itchan-dev/msgboard/backend/internal/storage/memory"
	"github.com/itchan-dev/msgboard/backend/internal/storage/pg"
	"github.com/itchan-dev/msgboard/backend/internal/utils"
	"github.com/itchan-dev/msgboard/shared/config"
	"github.com/itchan-dev/msgboard/shared/jwt"
	"github.com/itchan-dev/msgboard/shared/logger"
	mw "github.com/itchan-dev/msgboard/shared/middleware"
	"github.com/itchan-dev/msgboard/shared/middleware/metrics"
	rl "github.com/itchan-dev/msgboard/shared/middleware/ratelimiter"
)

const limiterExpiration = 1 * time.Hour

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config         *config.Config
	Storage        storage.Store
	Handler        *handler.Handler
	Jwt            jwt.JwtService
	AuthMiddleware *mw.Auth
	WriteLimiter   *rl.UserRateLimiter
}

// SetupDependencies initializes all dependencies required for the application.
// The store is picked by the storage_backend setting.
func SetupDependencies(ctx context.Context, cfg *config.Config) (*Dependencies, error) {
	var store storage.Store
	switch cfg.Public.StorageBackend {
	case config.BackendPostgres:
		s, err := pg.New(ctx, cfg)
		if err != nil {
			return nil, err
		}
		store = s
	case config.BackendMemory:
		store = memory.New(cfg.Public.ThreadsPerBoard)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Public.StorageBackend)
	}
	logger.Log.Info("storage ready", "backend", cfg.Public.StorageBackend)

	return build(cfg, store, metrics.Default), nil
}

// InMemory wires the application on a fresh volatile store, whatever the
// configured backend is. Its services count nothing in the process metrics.
func InMemory(cfg *config.Config) *Dependencies {
	return build(cfg, memory.New(cfg.Public.ThreadsPerBoard), metrics.Nop)
}

func build(cfg *config.Config, store storage.Store, recorder metrics.Recorder) *Dependencies {
	var stripper *service.MarkupStripper
	if cfg.Public.StripHTML {
		stripper = service.NewMarkupStripper()
	}
	validator := utils.New(cfg.Public.MaxTextLength)

	thread := service.NewThread(store, validator, stripper, recorder)
	reply := service.NewReply(store, validator, stripper, recorder)

	jwtService := jwt.New(cfg.JwtKey(), cfg.JwtTTL())

	return &Dependencies{
		Config:         cfg,
		Storage:        store,
		Handler:        handler.New(thread, reply, store, cfg),
		Jwt:            jwtService,
		AuthMiddleware: mw.NewAuth(jwtService),
		WriteLimiter:   rl.New(cfg.Public.WriteRPS, cfg.Public.WriteBurst, limiterExpiration),
	}
}
