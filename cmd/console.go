package cmd

import (
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"deliverydesk/internal/bootstrap"
	"deliverydesk/internal/bootstrap/logging"
	"deliverydesk/internal/errs"
	"deliverydesk/internal/usecase/exceptionconsole"
	"deliverydesk/internal/usecase/exceptions"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Start the terminal exception desk",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *exceptions.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		// The alternate screen owns the terminal, so logs go to log.file or nowhere.
		var out io.Writer = io.Discard
		if app.Config.Log.File != "" {
			file, err := os.OpenFile(app.Config.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
			if err != nil {
				return errs.Wrapf(err, "open log file %s", app.Config.Log.File)
			}
			defer file.Close()
			out = file
		}
		ctx = logging.WithLogger(ctx, logging.New(out, app.Config.Log.Level))

		model, err := exceptionconsole.NewModel(ctx, svc)
		if err != nil {
			return errs.Wrap(err, "create console model")
		}
		defer model.Close()

		program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
		if _, err := program.Run(); err != nil {
			return errs.Wrap(err, "run exception console")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}
