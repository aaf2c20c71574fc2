package main

import (
	"bufio"
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winctl/internal/command"
)

// maxRequestSize bounds one request line.
const maxRequestSize = 1 << 20

func newBatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run JSON commands read from stdin, one per line",
		Long: "Read newline-delimited JSON requests ({\"command\": ..., \"payload\": ...})\n" +
			"from stdin and write one JSON response per line to stdout. All requests\n" +
			"share one manager, so workspaces and windows persist across lines.",
		Args: cobra.NoArgs,
		RunE: runBatch,
	}
	addDetectScreenFlag(cmd)
	cmd.Flags().Bool("list", false, "Print the supported command names and exit")
	return cmd
}

func runBatch(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	if list, _ := cmd.Flags().GetBool("list"); list {
		for _, name := range command.Names() {
			fmt.Fprintln(out, name)
		}
		return nil
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()
	d := command.NewDispatcher(s.mgr, s.logger)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	scanner.Buffer(make([]byte, 0, 64*1024), maxRequestSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s\n", d.HandleJSON(line)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
