// Package app assembles the onboarding bot: configuration, infrastructure
// bootstrap, service wiring, and the Telegram run options consumed by the
// shared runner.
package app

import (
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/ADhailu/Biruh-ken-bot/core/bootstrap"
	coredatabase "github.com/ADhailu/Biruh-ken-bot/core/database"
	coretelegram "github.com/ADhailu/Biruh-ken-bot/core/telegram"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/router"
	tgsender "github.com/ADhailu/Biruh-ken-bot/core/telegram/sender"
	"github.com/ADhailu/Biruh-ken-bot/internal/approval"
	"github.com/ADhailu/Biruh-ken-bot/internal/bot"
	"github.com/ADhailu/Biruh-ken-bot/internal/flow"
	"github.com/ADhailu/Biruh-ken-bot/internal/gateway"
	"github.com/ADhailu/Biruh-ken-bot/internal/grant"
	"github.com/ADhailu/Biruh-ken-bot/internal/storage"
)

// App holds the assembled services for one bot process.
type App struct {
	cfg      *Config
	gw       *gateway.TelebotGateway
	handlers *bot.Handlers
}

// Bootstrap initializes logging and storage, then wires the domain services.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("app: nil config provided")
	}

	var dbCfg *coredatabase.Config
	if cfg.Store.Backend == "postgres" {
		dbCfg = &cfg.Database
	}
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: dbCfg,
	})
	if err != nil {
		return nil, err
	}

	var store storage.Store
	if res.DB != nil {
		store = storage.NewPostgresStore(res.DB)
	} else {
		store = storage.NewMemoryStore()
	}

	operatorID := cfg.Core.Telegram.AdminID
	gw := gateway.NewTelebotGateway(cfg.ChannelID, cfg.Payment.ProviderToken)
	locks := flow.NewUserLocks()

	engine := flow.NewEngine(store, gw, locks, flow.Config{
		Mode:       cfg.Mode(),
		OperatorID: operatorID,
		Amount:     cfg.Payment.Amount,
		Currency:   cfg.Payment.Currency,
		Accounts:   cfg.DepositAccounts(),
	})
	issuer := grant.NewIssuer(gw, operatorID)
	resolver := approval.NewResolver(store, gw, issuer, locks, operatorID)

	return &App{
		cfg:      cfg,
		gw:       gw,
		handlers: bot.NewHandlers(engine, resolver),
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain for
// the shared Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, a.handlers.Routes()...)

	// Operator notices ride the async sender; the runtime owns its shutdown.
	dispatcher := tgsender.NewDispatcher(tgsender.Options{})
	a.gw.BindDispatcher(dispatcher)

	return coretelegram.RunOptions{
		Config:      a.cfg.CoreConfig(),
		Registry:    reg,
		Dispatcher:  dispatcher,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg.CoreConfig(), nil),
		Routes:      routes,
		OnBot: func(b *tele.Bot) error {
			a.gw.Bind(b)
			return nil
		},
	}, nil
}
