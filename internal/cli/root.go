// Package cli implements the flightsearch command line tool.
package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/networkteam/flightsearch/browser"
	"github.com/networkteam/flightsearch/config"
	"github.com/networkteam/flightsearch/session"
)

// Version is set at build time with -ldflags "-X github.com/networkteam/flightsearch/internal/cli.Version=...".
var Version = "dev"

// DefaultConfigDir is where browser.json, test.json and reporting.json are looked up.
const DefaultConfigDir = "config"

// PageSource hands out a fresh page per scenario.
type PageSource interface {
	NewPage(ctx context.Context) (browser.Page, func() error, error)
	Close() error
}

// Launcher starts the browser described by cfg.
type Launcher func(cfg *config.Config, logger *slog.Logger) (PageSource, error)

// Installer downloads the driver and browsers for engines.
type Installer func(engines ...string) error

type app struct {
	launch  Launcher
	install Installer
}

// Option configures the root command.
type Option func(*app)

// WithLauncher replaces the Playwright launcher.
func WithLauncher(launch Launcher) Option {
	return func(a *app) {
		a.launch = launch
	}
}

// WithInstaller replaces the Playwright installer.
func WithInstaller(install Installer) Option {
	return func(a *app) {
		a.install = install
	}
}

// NewRootCmd builds the command tree. Every call returns independent
// commands and flag state.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{
		launch:  launchSession,
		install: session.Install,
	}
	for _, opt := range opts {
		opt(a)
	}

	v := viper.New()
	v.SetEnvPrefix("FLIGHTSEARCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "flightsearch",
		Short:         "Runs the flight search UI scenarios in a real browser.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	root.PersistentFlags().String("config-dir", DefaultConfigDir, "directory with browser.json, test.json and reporting.json")
	_ = v.BindPFlag("config-dir", root.PersistentFlags().Lookup("config-dir"))

	root.AddCommand(
		newRunCmd(a, v),
		newInstallCmd(a, v),
		newConfigCmd(v),
	)
	return root
}

func loadConfig(v *viper.Viper) (*config.Config, error) {
	return config.Load(v.GetString("config-dir"))
}

// sessionSource opens one browser context per page.
type sessionSource struct {
	*session.Session
}

func (s sessionSource) NewPage(context.Context) (browser.Page, func() error, error) {
	page, err := s.Session.NewPage()
	if err != nil {
		return nil, nil, err
	}
	return page, page.Close, nil
}

func launchSession(cfg *config.Config, logger *slog.Logger) (PageSource, error) {
	s, err := session.Start(cfg, logger)
	if err != nil {
		return nil, err
	}
	return sessionSource{Session: s}, nil
}
