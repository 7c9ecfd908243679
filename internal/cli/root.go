// Package cli implements the notesync command line interface. It is a thin
// shell over the sync service; no sync logic lives here.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/nzaccagnino/notesync/internal/api"
	"github.com/nzaccagnino/notesync/internal/config"
	"github.com/nzaccagnino/notesync/internal/db"
	"github.com/nzaccagnino/notesync/internal/sync"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

// NewRootCommand creates the root command for the notesync CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:          "notesync",
		Short:        "Offline-first notes with remote sync",
		Long:         "notesync keeps a local, always-available copy of your notes and reconciles it with a remote record store whenever connectivity allows.",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", config.DefaultConfigPath(), "path to config file")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewSyncCommand(opts))
	cmd.AddCommand(NewStatusCommand(opts))
	cmd.AddCommand(NewWatchCommand(opts))

	return cmd
}

// app bundles the wired components a command needs.
type app struct {
	cfg     *config.Config
	store   *db.DB
	client  *api.Client
	service *sync.Service
}

func openApp(opts *RootOptions) (*app, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	store, err := db.New(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	client := api.NewClient(cfg.Remote.URL, cfg.Remote.APIKey, cfg.Remote.UserID)

	return &app{
		cfg:     cfg,
		store:   store,
		client:  client,
		service: sync.New(store, client, nil),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
