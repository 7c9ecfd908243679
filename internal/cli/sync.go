package cli

import (
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/nzaccagnino/notesync/internal/db"
	"github.com/nzaccagnino/notesync/internal/sync"
)

// NewSyncCommand runs one full reconciliation pass.
func NewSyncCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile local notes with the remote store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.client.IsConfigured() {
				return fmt.Errorf("no remote endpoint configured, run `notesync init` first")
			}

			result := app.service.FullSync()
			if !result.Success {
				return fmt.Errorf("sync failed: %s", result.Error)
			}

			fmt.Printf("synced %d, conflicts %d, failed %d\n",
				result.Synced, result.Conflicts, result.Failed)
			return nil
		},
	}
}

// NewStatusCommand prints the sync state of the local store.
func NewStatusCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show pending operations and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			pending, err := app.service.PendingCount()
			if err != nil {
				return err
			}
			lastSync, err := app.service.LastSyncTime()
			if err != nil {
				return err
			}
			notes, err := app.service.GetNotes()
			if err != nil {
				return err
			}

			counts := make(map[db.SyncStatus]int)
			for _, n := range notes {
				counts[n.SyncStatus]++
			}

			switch {
			case !app.client.IsConfigured():
				fmt.Println("remote: not configured")
			case app.client.Online():
				fmt.Println("remote: reachable")
			default:
				fmt.Println("remote: unreachable")
			}
			fmt.Printf("pending operations: %d\n", pending)
			if lastSync.IsZero() {
				fmt.Println("last full sync: never")
			} else {
				fmt.Printf("last full sync: %s\n", lastSync.Local().Format("2006-01-02 15:04:05"))
			}
			for _, status := range []db.SyncStatus{
				db.SyncStatusSynced, db.SyncStatusPending, db.SyncStatusFailed, db.SyncStatusConflict,
			} {
				if counts[status] > 0 {
					fmt.Printf("  %s: %d\n", renderStatus(status), counts[status])
				}
			}

			// Failed notes are stuck until the user edits or removes them,
			// so name them.
			if counts[db.SyncStatusFailed] > 0 {
				failed, err := app.store.NotesBySyncStatus(db.SyncStatusFailed)
				if err != nil {
					return err
				}
				for _, n := range failed {
					fmt.Printf("    %s (%s)\n", n.Title, n.LocalID)
				}
			}
			return nil
		},
	}
}

// NewWatchCommand runs the background sync watcher until interrupted.
func NewWatchCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll connectivity and sync in the background",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if !app.client.IsConfigured() {
				return fmt.Errorf("no remote endpoint configured, run `notesync init` first")
			}

			watchCfg := sync.DefaultWatcherConfig()
			watchCfg.PollInterval = app.cfg.SyncInterval
			if app.cfg.LogFile != "" {
				watchCfg.Logger = log.New(&lumberjack.Logger{
					Filename:   app.cfg.LogFile,
					MaxSize:    10, // megabytes
					MaxBackups: 3,
				}, "[watch] ", log.LstdFlags)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return sync.NewWatcher(app.service, watchCfg).Run(ctx)
		},
	}
}
