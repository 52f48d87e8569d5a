package router

import (
	"time"

	tg "github.com/ADhailu/Biruh-ken-bot/core/telegram"
	"github.com/ADhailu/Biruh-ken-bot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// UpdateRoute wraps a raw update handler (text, contact, photo, checkout,
// payment) with the shared recover/logger middleware chain and summary
// logging under the given handler name.
func UpdateRoute(endpoint any, name string, h tele.HandlerFunc) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		return handleWithSummary(c, name, start, "", "", func() error {
			return h(c)
		})
	}
	return tg.Route{
		Endpoint: endpoint,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}
