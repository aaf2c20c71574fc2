package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/1broseidon/winctl/internal/manager"
	"github.com/1broseidon/winctl/internal/platform"
)

func newArrangeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "arrange [HANDLE...]",
		Short: "Tile OS windows across the screen",
		Long: "Tile the given window handles in order across the screen. Handles may be\n" +
			"decimal or 0x-prefixed hex. Without arguments every visible, non-minimized\n" +
			"window is arranged.",
		RunE: runArrange,
	}
	addDetectScreenFlag(cmd)
	return cmd
}

func runArrange(cmd *cobra.Command, args []string) error {
	handles, err := parseHandles(args)
	if err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	if len(handles) == 0 {
		windows, err := s.mgr.GetSystemWindows()
		if err != nil {
			return err
		}
		for _, w := range windows {
			if w.IsVisible && !w.IsMinimized {
				handles = append(handles, w.Handle)
			}
		}
	}

	out := cmd.OutOrStdout()
	if len(handles) == 0 {
		fmt.Fprintln(out, "no windows to arrange")
		return nil
	}

	err = s.mgr.ArrangeSystemWindows(handles)
	var aerr *manager.ArrangeError
	if errors.As(err, &aerr) {
		for _, f := range aerr.Failures {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", f.Handle, f.Err)
		}
		fmt.Fprintf(out, "arranged %d of %d windows\n", len(handles)-len(aerr.Failures), len(handles))
		return err
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "arranged %d windows\n", len(handles))
	return nil
}

func parseHandles(args []string) ([]platform.Handle, error) {
	handles := make([]platform.Handle, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseUint(arg, 0, 64)
		if err != nil || v == 0 {
			return nil, fmt.Errorf("invalid window handle %q", arg)
		}
		handles = append(handles, platform.Handle(v))
	}
	return handles, nil
}
