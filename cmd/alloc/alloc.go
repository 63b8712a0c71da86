// Package alloc implements the alloc command, which allocates a fresh VT.
package alloc

import (
	"context"
	"fmt"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/vt"

	"github.com/urfave/cli/v3"
)

const categoryAlloc = "alloc"

const minFlag = "min"
const switchFlag = "switch"

// GetCommand returns the CLI command for allocating a VT.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:  "alloc",
		Usage: "Allocate an unused VT and print its number",
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

			term, err := allocate(console, int(cmd.Int(minFlag)))
			if err != nil {
				return fmt.Errorf("allocating VT: %s", err)
			}
			defer term.Close()

			fmt.Printf("tty%d\n", term.Number())

			if cmd.Bool(switchFlag) {
				if err := console.SwitchTo(term.Number()); err != nil {
					return fmt.Errorf("switching to tty%d: %s", term.Number(), err)
				}
			}

			return nil
		},
		Flags: append([]cli.Flag{
			&cli.IntFlag{
				Name:     minFlag,
				Aliases:  []string{"m"},
				Usage:    "Allocate a VT numbered at least this high",
				Category: categoryAlloc,
				Value:    0,
				Required: false,
			},
			&cli.BoolFlag{
				Name:     switchFlag,
				Aliases:  []string{},
				Usage:    "Make the new VT the foreground VT",
				Category: categoryAlloc,
				Value:    false,
				Required: false,
			},
		}, append(shared.GetConsoleFlags(), shared.GetCommonFlags()...)...),
	}
}

func allocate(console *vt.Console, min int) (*vt.VT, error) {
	if min > 0 {
		return console.NewVTWithMinimum(min)
	}
	return console.NewVT()
}
