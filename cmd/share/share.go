// Package share implements the share command, which serves a VT to a
// remote guest.
package share

import (
	"context"
	"fmt"
	"strings"
	"time"

	"vtkit/cmd/shared"
	"vtkit/pkg/config"
	"vtkit/pkg/entrypoint"
	"vtkit/pkg/log"

	"github.com/urfave/cli/v3"
)

// GetCommand returns the CLI command for hosting a console share.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "share",
		Usage:       "Listen for a guest and share a VT",
		ArgsUsage:   shared.GetArgsUsage(),
		Description: shared.GetBaseDescription(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 1 {
				return fmt.Errorf("must provide exactly one argument, got %d (%s)", args.Len(), strings.Join(args.Slice(), ", "))
			}

			proto, host, port, err := shared.ParseTransport(args.Get(0))
			if err != nil {
				return fmt.Errorf("parsing transport: %s", err)
			}

			cfg := &config.Shared{
				ConsolePath: cmd.String(shared.ConsoleFlag),
				Protocol:    proto,
				Host:        host,
				Port:        port,
				SSL:         cmd.Bool(shared.SSLFlag),
				Key:         cmd.String(shared.KeyFlag),
				Timeout:     time.Duration(cmd.Int(shared.TimeoutFlag)) * time.Millisecond,
				Verbose:     cmd.Bool(shared.VerboseFlag),
			}

			sCfg := &config.Share{
				VTNum:       int(cmd.Int(shared.VTFlag)),
				MinVT:       int(cmd.Int(shared.MinVTFlag)),
				AllowSwitch: cmd.Bool(shared.AllowSwitchFlag),
			}

			if errors := config.Validate(cfg, sCfg); len(errors) > 0 {
				log.ErrorMsg("Argument validation errors:\n")
				for _, err := range errors {
					log.ErrorMsg(" - %s\n", err)
				}
				return fmt.Errorf("exiting")
			}

			return entrypoint.Share(ctx, cfg, sCfg)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetConsoleFlags()...)
	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetNetworkFlags()...)
	flags = append(flags, shared.GetShareFlags()...)

	return flags
}
