// Package lock implements the lock and unlock commands, which control
// whether VT switching is allowed.
package lock

import (
	"context"
	"fmt"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/vt"

	"github.com/urfave/cli/v3"
)

// GetLockCommand returns the CLI command for disabling VT switching.
func GetLockCommand() *cli.Command {
	return &cli.Command{
		Name:   "lock",
		Usage:  "Disable VT switching",
		Action: action(true),
		Flags:  append(shared.GetConsoleFlags(), shared.GetCommonFlags()...),
	}
}

// GetUnlockCommand returns the CLI command for re-enabling VT switching.
func GetUnlockCommand() *cli.Command {
	return &cli.Command{
		Name:   "unlock",
		Usage:  "Re-enable VT switching",
		Action: action(false),
		Flags:  append(shared.GetConsoleFlags(), shared.GetCommonFlags()...),
	}
}

func action(lock bool) func(ctx context.Context, cmd *cli.Command) error {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := &config.Shared{
			ConsolePath: cmd.String(shared.ConsoleFlag),
			Verbose:     cmd.Bool(shared.VerboseFlag),
		}

		console, err := vt.OpenConsoleAt(cfg.Console(), cfg.Deps)
		if err != nil {
			return fmt.Errorf("opening %s: %s", cfg.Console(), err)
		}
		defer console.Close()

		if err := console.LockSwitching(lock); err != nil {
			return fmt.Errorf("changing switch lock: %s", err)
		}

		return nil
	}
}
