package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/nzaccagnino/notesync/internal/db"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	statusStyles = map[db.SyncStatus]lipgloss.Style{
		db.SyncStatusSynced:   lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		db.SyncStatusPending:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		db.SyncStatusSyncing:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		db.SyncStatusFailed:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		db.SyncStatusConflict: lipgloss.NewStyle().Foreground(lipgloss.Color("201")),
	}
)

func renderStatus(status db.SyncStatus) string {
	style, ok := statusStyles[status]
	if !ok {
		return string(status)
	}
	return style.Render(string(status))
}
