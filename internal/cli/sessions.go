package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarev/decisive/internal/model"
)

// sessionsCmd represents the sessions command
var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List research sessions from this process",
	Long: `Sessions are held in memory for the lifetime of the process. In
interactive research mode, "list" shows the same table. A standalone
invocation starts with an empty store.`,
	Run: func(cmd *cobra.Command, args []string) {
		renderSessions(os.Stdout, model.NewSessionStore())
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

// renderSessions prints the session table, most recent first
func renderSessions(w io.Writer, store *model.SessionStore) {
	sessions := store.List()
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions recorded.")
		return
	}

	fmt.Fprintf(w, "%-28s  %-19s  %s\n", "SESSION", "CREATED", "QUESTION")
	for _, s := range sessions {
		question := s.Question
		if len(question) > 60 {
			question = question[:57] + "..."
		}
		fmt.Fprintf(w, "%-28s  %-19s  %s\n", s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), question)
	}
}
