package buildcmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"

	"github.com/goliatone/go-sitegen/internal/commands"
	"github.com/goliatone/go-sitegen/internal/generator"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract for hosts that
// expose handlers through their own CLI or scheduler.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// Subscription tears down a dispatcher subscription.
type Subscription interface {
	Unsubscribe()
}

// HandlerSet groups the handlers built by RegisterSiteCommands.
type HandlerSet struct {
	Build *BuildSiteHandler
	Clean *CleanSiteHandler
}

// Option customises handler wiring during registration.
type Option func(*options)

type options struct {
	buildHandlerOpts []commands.HandlerOption[BuildSiteCommand]
	cleanHandlerOpts []commands.HandlerOption[CleanSiteCommand]
}

// WithBuildHandlerOptions forwards options to NewBuildSiteHandler.
func WithBuildHandlerOptions(opts ...commands.HandlerOption[BuildSiteCommand]) Option {
	return func(cfg *options) {
		cfg.buildHandlerOpts = append(cfg.buildHandlerOpts, opts...)
	}
}

// WithCleanHandlerOptions forwards options to NewCleanSiteHandler.
func WithCleanHandlerOptions(opts ...commands.HandlerOption[CleanSiteCommand]) Option {
	return func(cfg *options) {
		cfg.cleanHandlerOpts = append(cfg.cleanHandlerOpts, opts...)
	}
}

// RegisterSiteCommands builds the site handlers and, when reg is set,
// registers them with it.
func RegisterSiteCommands(reg CommandRegistry, service generator.Service, provider interfaces.LoggerProvider, opts ...Option) (*HandlerSet, error) {
	if service == nil {
		return nil, errors.New("site command registration: generator is nil")
	}

	cfg := options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	logger := commands.CommandLogger(provider, "site")
	set := &HandlerSet{
		Build: NewBuildSiteHandler(service, logger, cfg.buildHandlerOpts...),
		Clean: NewCleanSiteHandler(service, logger, cfg.cleanHandlerOpts...),
	}

	if reg != nil {
		if err := reg.RegisterCommand(set.Build); err != nil {
			return nil, err
		}
		if err := reg.RegisterCommand(set.Clean); err != nil {
			return nil, err
		}
	}
	return set, nil
}

// Subscribe attaches the handlers to the global go-command dispatcher so
// hosts can dispatch BuildSiteCommand and CleanSiteCommand messages.
// Builds are never retried; a failed build leaves nothing to resume.
func (s *HandlerSet) Subscribe() []Subscription {
	if s == nil {
		return nil
	}
	subs := make([]Subscription, 0, 2)
	if s.Build != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.Build, runner.WithMaxRetries(0)))
	}
	if s.Clean != nil {
		subs = append(subs, dispatcher.SubscribeCommand(s.Clean, runner.WithMaxRetries(0)))
	}
	return subs
}
