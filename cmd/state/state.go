// Package state implements the state command, which reports the kernel's
// current VT state.
package state

import (
	"context"
	"fmt"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/vt"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for printing the VT state.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "state",
		Usage: "Show the active VT and which VTs are in use",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := &config.Shared{
				ConsolePath: cmd.String(shared.ConsoleFlag),
				Verbose:     cmd.Bool(shared.VerboseFlag),
			}

			console, err := vt.OpenConsoleAt(cfg.Console(), cfg.Deps)
			if err != nil {
				return fmt.Errorf("opening %s: %s", cfg.Console(), err)
			}
			defer console.Close()

			st, err := console.State()
			if err != nil {
				return fmt.Errorf("querying VT state: %s", err)
			}

			fmt.Printf("active: tty%d\n", st.Active)
			fmt.Printf("in use:%s\n", formatInUse(st.State))

			return nil
		},
		Flags: append(shared.GetConsoleFlags(), shared.GetCommonFlags()...),
	}
}

// formatInUse renders the kernel's in-use bitmask. The mask only covers the
// first 16 VTs.
func formatInUse(mask uint16) string {
	out := ""
	for n := 0; n < 16; n++ {
		if mask&(1<<uint(n)) != 0 {
			out += fmt.Sprintf(" tty%d", n)
		}
	}
	if out == "" {
		return " none"
	}
	return out
}
