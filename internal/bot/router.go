package bot

import (
	"log/slog"
	"strings"
	"sync"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/weather-bot/internal/bot/handlers"
	"github.com/Proton-105/weather-bot/internal/bot/keyboard"
)

// TextPredicate decides whether a text route accepts a message.
type TextPredicate func(text string) bool

type textRoute struct {
	name    string
	match   TextPredicate
	handler handlers.Handler
}

type callbackRoute struct {
	prefix  string
	handler handlers.CallbackHandler
}

// Router dispatches commands, free text, and callbacks. Routes are tried in
// registration order and the first match wins.
type Router struct {
	mu          sync.RWMutex
	commands    map[string]handlers.Handler
	texts       []textRoute
	callbacks   []callbackRoute
	middlewares []handlers.Middleware
	log         *slog.Logger
}

// NewRouter builds a Router with empty registries.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		commands:    make(map[string]handlers.Handler),
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers a handler for a bot command.
func (r *Router) RegisterCommand(cmd string, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd] = h
}

// RegisterText registers a handler for plain text accepted by match.
func (r *Router) RegisterText(name string, match TextPredicate, h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.texts = append(r.texts, textRoute{name: name, match: match, handler: h})
}

// RegisterCallback registers a handler for callback data starting with prefix.
func (r *Router) RegisterCallback(prefix string, h handlers.CallbackHandler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, callbackRoute{prefix: prefix, handler: h})
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// Commands lists the registered command names.
func (r *Router) Commands() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.commands))
	for cmd := range r.commands {
		out = append(out, cmd)
	}
	return out
}

// Route directs the incoming update to the appropriate handler.
// Updates no route accepts are dropped without a reply.
func (r *Router) Route(c telebot.Context) error {
	if c == nil {
		return nil
	}

	if callback := c.Callback(); callback != nil {
		return r.handleCallback(c, callback.Data)
	}

	return r.handleMessage(c)
}

func (r *Router) handleCallback(c telebot.Context, data string) error {
	handler := r.findCallbackHandler(data)
	if handler == nil {
		r.log.Debug("no callback handler found", slog.String("data", data))
		return nil
	}

	return r.executeHandler(handlers.Handler(handler), c)
}

func (r *Router) handleMessage(c telebot.Context) error {
	text := c.Text()

	if strings.HasPrefix(text, "/") {
		if handler := r.getCommandHandler(normalizeCommand(text)); handler != nil {
			return r.executeHandler(handler, c)
		}
	}

	if handler := r.findTextHandler(text); handler != nil {
		return r.executeHandler(handler, c)
	}

	r.log.Debug("no text handler found", slog.Int("length", len(text)))
	return nil
}

func (r *Router) executeHandler(h handlers.Handler, c telebot.Context) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(c)
}

func (r *Router) findCallbackHandler(data string) handlers.CallbackHandler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.callbacks {
		if strings.HasPrefix(data, route.prefix) {
			return route.handler
		}
	}

	return nil
}

func (r *Router) findTextHandler(text string) handlers.Handler {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, route := range r.texts {
		if route.match == nil || route.match(text) {
			return route.handler
		}
	}

	return nil
}

func (r *Router) getCommandHandler(cmd string) handlers.Handler {
	r.mu.RLock()
	handler := r.commands[cmd]
	r.mu.RUnlock()
	return handler
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}

// normalizeCommand turns "/start@weather_bot now" into "/start".
func normalizeCommand(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}

	cmd := fields[0]
	if at := strings.IndexByte(cmd, '@'); at >= 0 {
		cmd = cmd[:at]
	}
	return cmd
}

// RouteName labels an update for logs and metrics without exposing user text.
func RouteName(c telebot.Context) string {
	if c == nil {
		return RouteUnmatched
	}

	if cb := c.Callback(); cb != nil {
		action, _, _ := strings.Cut(cb.Data, keyboard.CallbackDataSeparator)
		switch action {
		case RouteCurrentWeather, RouteForecast, RouteDate:
			return action
		}
		return RouteUnmatched
	}

	text := c.Text()
	switch normalizeCommand(text) {
	case CommandStart:
		return RouteStart
	case CommandHelp:
		return RouteHelp
	}

	if handlers.IsPlaceText(text) {
		return RoutePlace
	}
	return RouteUnmatched
}
