package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/1broseidon/winctl/internal/platform"
)

func newWindowsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "windows",
		Short: "List the top-level windows the driver can see",
		Args:  cobra.NoArgs,
		RunE:  runWindows,
	}
	cmd.Flags().Bool("json", false, "Output as JSON")
	return cmd
}

func runWindows(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	windows, err := s.mgr.GetSystemWindows()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if asJSON || !isTerminal(out) {
		return writeJSON(out, windows)
	}
	return writeWindowTable(out, windows)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeWindowTable(w io.Writer, windows []platform.SystemWindow) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, 0, len(windows))
	for _, win := range windows {
		rows = append(rows, []string{
			win.Handle.String(),
			win.ProcessName,
			strconv.FormatUint(uint64(win.PID), 10),
			fmt.Sprintf("%dx%d+%d+%d", win.Width, win.Height, win.X, win.Y),
			windowState(win),
			win.Title,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("HANDLE", "PROCESS", "PID", "GEOMETRY", "STATE", "TITLE").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	_, err := lipgloss.Fprintln(w, t.Render())
	return err
}

func windowState(w platform.SystemWindow) string {
	switch {
	case w.IsMinimized:
		return "minimized"
	case w.IsMaximized:
		return "maximized"
	case !w.IsVisible:
		return "hidden"
	default:
		return "normal"
	}
}
