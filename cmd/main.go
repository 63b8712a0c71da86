package main

import (
	"context"
	"os"

	"vtkit/cmd/alloc"
	"vtkit/cmd/attach"
	"vtkit/cmd/join"
	"vtkit/cmd/lock"
	"vtkit/cmd/share"
	"vtkit/cmd/shared"
	"vtkit/cmd/state"
	switchcmd "vtkit/cmd/switchto"
	"vtkit/cmd/version"
	"vtkit/pkg/log"

	"github.com/urfave/cli/v3"
)

func main() {
	root := &cli.Command{
		Name:  "vtctl",
		Usage: "manage, attach to and share Linux virtual terminals",
		Commands: []*cli.Command{
			state.GetCommand(),
			alloc.GetCommand(),
			switchcmd.GetCommand(),
			attach.GetCommand(),
			lock.GetLockCommand(),
			lock.GetUnlockCommand(),
			share.GetCommand(),
			join.GetCommand(),
			version.GetCommand(),
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	shared.SetupSignalHandling(cancel)

	if err := root.Run(ctx, os.Args); err != nil {
		log.ErrorMsg("Error: %s\n", err)
		os.Exit(1)
	}
}
