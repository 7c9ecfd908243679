package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewAddCommand creates a note. The note is stored locally first and pushed
// remotely if the endpoint is reachable.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var content string

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			note, err := app.service.CreateNote(args[0], content)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n", renderStatus(note.SyncStatus), note.Title, note.LocalID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&content, "content", "m", "", "note content")
	return cmd
}

// NewEditCommand updates a note's title and/or content.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	var title, content string

	cmd := &cobra.Command{
		Use:   "edit <local-id>",
		Short: "Edit a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			existing, err := app.service.GetNote(args[0])
			if err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("no note with local id %s", args[0])
			}

			if !cmd.Flags().Changed("title") {
				title = existing.Title
			}
			if !cmd.Flags().Changed("content") {
				content = existing.Content
			}

			note, err := app.service.UpdateNote(args[0], title, content)
			if err != nil {
				return err
			}

			fmt.Printf("%s %s (%s)\n", renderStatus(note.SyncStatus), note.Title, note.LocalID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "m", "", "new content")
	return cmd
}

// NewRemoveCommand deletes a note locally and queues the remote delete.
func NewRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <local-id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			if err := app.service.DeleteNote(args[0]); err != nil {
				return err
			}
			fmt.Println("deleted", args[0])
			return nil
		},
	}
}

// NewListCommand prints all local notes, newest first.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List notes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			notes, err := app.service.GetNotes()
			if err != nil {
				return err
			}
			if len(notes) == 0 {
				fmt.Println("no notes")
				return nil
			}

			for _, n := range notes {
				fmt.Printf("%-10s %s %s\n",
					renderStatus(n.SyncStatus),
					titleStyle.Render(n.Title),
					dimStyle.Render(fmt.Sprintf("%s  modified %s", n.LocalID, n.ModifiedAt.Local().Format("2006-01-02 15:04"))))
			}
			return nil
		},
	}
}

// NewShowCommand prints one note in full.
func NewShowCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <local-id>",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(opts)
			if err != nil {
				return err
			}
			defer app.Close()

			note, err := app.service.GetNote(args[0])
			if err != nil {
				return err
			}
			if note == nil {
				// Also accept a remote id, since that is what shows up in
				// remote-side tooling.
				note, err = app.store.GetNoteByRemoteID(args[0])
				if err != nil {
					return err
				}
			}
			if note == nil {
				return fmt.Errorf("no note with id %s", args[0])
			}

			fmt.Println(titleStyle.Render(note.Title))
			fmt.Println(dimStyle.Render(fmt.Sprintf("status %s  local %s  remote %s",
				note.SyncStatus, note.LocalID, orDash(note.RemoteID))))
			fmt.Println()
			fmt.Println(note.Content)
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
