// Package attach implements the attach command, which connects the local
// terminal to a VT.
package attach

import (
	"context"
	"fmt"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/entrypoint"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for attaching to a VT.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:      "attach",
		Usage:     "Attach stdin/stdout to the given VT",
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

			if err := entrypoint.Attach(ctx, cfg, n); err != nil {
				return fmt.Errorf("attaching to tty%d: %s", n, err)
			}

			return nil
		},
		Flags: append(shared.GetConsoleFlags(), shared.GetCommonFlags()...),
	}
}
