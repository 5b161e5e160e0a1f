package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/spetersoncode/storebridge/bridge"
	"github.com/spetersoncode/storebridge/event"
	"github.com/spetersoncode/storebridge/gateway"
	"github.com/spetersoncode/storebridge/internal/config"
	"github.com/spetersoncode/storebridge/internal/hostapp"
	"github.com/spetersoncode/storebridge/model"
	"github.com/spetersoncode/storebridge/store"
	"github.com/spetersoncode/storebridge/store/sqlite"
)

// runtime is a started reference host with a bridge over it.
type runtime struct {
	host    *hostapp.Host
	gateway *gateway.Gateway
	bridge  *bridge.Bridge
	events  chan event.Event
	state   *sqlite.Adapter
	logger  *zap.Logger
}

// startRuntime builds the host, restores persisted state and initializes
// the store. latency delays host effects.
func startRuntime(ctx context.Context, cfg *config.Config, latency time.Duration) (*runtime, error) {
	events := event.NewChannel()
	host, err := hostapp.New(hostapp.Options{
		SearchDB:     cfg.SearchDB,
		JWTSecret:    cfg.Secret(),
		Latency:      latency,
		StoreOptions: []store.Option{store.WithLogger(logger.Named("store")), store.WithEvents(events)},
	})
	if err != nil {
		return nil, fmt.Errorf("start host: %w", err)
	}

	rt := &runtime{host: host, events: events, logger: logger.Named("runtime")}

	if cfg.StateDB != "" {
		rt.state, err = sqlite.Open(cfg.StateDB)
		if err != nil {
			host.Close()
			return nil, fmt.Errorf("open state db: %w", err)
		}
		if err := host.Store().Hydrate(ctx, rt.state); err != nil {
			rt.close(ctx)
			return nil, fmt.Errorf("restore state: %w", err)
		}
	}

	host.Start()

	if cfg.DemoToken != "" {
		host.Login(cfg.DemoToken)
	}

	rt.gateway = gateway.New(host.Store(), gateway.WithLogger(logger.Named("gateway")), gateway.WithEvents(events))
	rt.bridge = bridge.New(store.ReadOnly(host.Store()), rt.gateway, bridge.WithSnapshotTimeout(cfg.SnapshotTimeout))

	if err := gateway.Verify(hostapp.Handled()); err != nil {
		rt.logger.Warn("host and gateway disagree", zap.Error(err))
	}
	return rt, nil
}

// signDemoToken signs a session token for the first catalog profile.
func (rt *runtime) signDemoToken() (string, error) {
	return rt.host.Tokens().Sign(model.Claims{
		Subject:   "user-1",
		Email:     "ada@example.com",
		UserGroup: "EDITOR",
	}, time.Hour)
}

// close persists state when a state db is configured, then stops the host.
func (rt *runtime) close(ctx context.Context) {
	if rt.state != nil {
		if rt.host.Store().State().Ready() {
			if err := rt.host.Store().Sync(ctx, rt.state); err != nil {
				rt.logger.Error("state not saved", zap.Error(err))
			}
		}
		if err := rt.state.Close(); err != nil {
			rt.logger.Error("state db close", zap.Error(err))
		}
	}
	if err := rt.host.Close(); err != nil {
		rt.logger.Error("host close", zap.Error(err))
	}
}
