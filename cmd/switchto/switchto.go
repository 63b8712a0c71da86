// Package switchto implements the switch command, which makes a VT the
// foreground terminal.
package switchto

import (
	"context"
	"fmt"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/vt"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for switching the foreground VT.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "switch",
		Usage:     "Switch the foreground terminal to the given VT",
		ArgsUsage: "vt-number",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return fmt.Errorf("must provide exactly one VT number, got %d arguments", args.Len())
			}

			n, err := shared.ParseVTNumber(args.Get(0))
			if err != nil {
				return err
			}

			cfg := &config.Shared{
				ConsolePath: cmd.String(shared.ConsoleFlag),
				Verbose:     cmd.Bool(shared.VerboseFlag),
			}

			console, err := vt.OpenConsoleAt(cfg.Console(), cfg.Deps)
			if err != nil {
				return fmt.Errorf("opening %s: %s", cfg.Console(), err)
			}
			defer console.Close()

			if err := console.SwitchTo(n); err != nil {
				return fmt.Errorf("switching to tty%d: %s", n, err)
			}

			return nil
		},
		Flags: append(shared.GetConsoleFlags(), shared.GetCommonFlags()...),
	}
}
