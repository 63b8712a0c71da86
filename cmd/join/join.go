// Package join implements the join command, which connects to a remote
// console share.
package join

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

// GetCommand returns the CLI command for joining a console share.
func GetCommand() *cli.Command {
	return &cli.Command{
		Name:        "join",
		Usage:       "Connect to a shared VT on a remote host",
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
			if host == "" {
				return fmt.Errorf("parsing transport: %s: specify a host", args.Get(0))
			}

			cfg := &config.Shared{
				Protocol: proto,
				Host:     host,
				Port:     port,
				SSL:      cmd.Bool(shared.SSLFlag),
				Key:      cmd.String(shared.KeyFlag),
				Timeout:  time.Duration(cmd.Int(shared.TimeoutFlag)) * time.Millisecond,
				Verbose:  cmd.Bool(shared.VerboseFlag),
			}

			jCfg := &config.Join{
				RequestVT: int(cmd.Int(shared.RequestVTFlag)),
			}

			if errors := config.Validate(cfg, jCfg); len(errors) > 0 {
				log.ErrorMsg("Argument validation errors:\n")
				for _, err := range errors {
					log.ErrorMsg(" - %s\n", err)
				}
				return fmt.Errorf("exiting")
			}

			return entrypoint.Join(ctx, cfg, jCfg)
		},
		Flags: getFlags(),
	}
}

func getFlags() []cli.Flag {
	flags := []cli.Flag{}

	flags = append(flags, shared.GetCommonFlags()...)
	flags = append(flags, shared.GetNetworkFlags()...)
	flags = append(flags, shared.GetJoinFlags()...)

	return flags
}
