// Package shared provides common CLI flag definitions and utility functions
// used across vtctl's command-line interface.
package shared

import (
	"strings"

	"github.com/urfave/cli/v3"
)

const categoryCommon = "common"

// ConsoleFlag is the name of the flag to override the console device node.
const ConsoleFlag = "console"

// VerboseFlag is the name of the flag to enable verbose error logging.
const VerboseFlag = "verbose"

// GetBaseDescription returns the base description text for transport
// specifications used in CLI commands.
func GetBaseDescription() string {
	return strings.Join([]string{
		"Specify transport like this: tcp://127.0.0.1:123 (supports tcp|ws|wss|udp)",
		"You can omit the host when listening to bind to all interfaces.",
	}, "\n")
}

// GetArgsUsage returns the arguments usage string for CLI commands.
func GetArgsUsage() string {
	return strings.Join([]string{
		"transport",
	}, " ")
}

// GetCommonFlags returns the CLI flags shared by every vtctl command.
func GetCommonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     VerboseFlag,
			Aliases:  []string{"v"},
			Usage:    "Verbose error logging",
			Category: categoryCommon,
			Value:    false,
			Required: false,
		},
	}
}

// GetConsoleFlags returns the CLI flags for commands that talk to the local
// VT subsystem.
func GetConsoleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     ConsoleFlag,
			Aliases:  []string{"C"},
			Usage:    "Console device node used to talk to the VT subsystem",
			Category: categoryCommon,
			Value:    "",
			Required: false,
		},
	}
}

const categoryNetwork = "network"

// SSLFlag is the name of the flag to enable TLS encryption.
const SSLFlag = "ssl"

// KeyFlag is the name of the flag to specify the mTLS authentication key.
const KeyFlag = "key"

// TimeoutFlag is the name of the flag to specify operation timeout in milliseconds.
const TimeoutFlag = "timeout" // TODO for future: consider changing to time.Duration type, cmd.Duration(...)

// GetNetworkFlags returns the CLI flags used by the share and join commands.
func GetNetworkFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:     SSLFlag,
			Aliases:  []string{"s"},
			Usage:    "Use TLS encryption",
			Category: categoryNetwork,
			Value:    false,
			Required: false,
		},
		&cli.StringFlag{
			Name:     KeyFlag,
			Aliases:  []string{"k"},
			Usage:    "Key for mTLS authentication, leave empty to disable authentication",
			Category: categoryNetwork,
			Value:    "",
			Required: false,
		},
		&cli.IntFlag{
			Name:     TimeoutFlag,
			Aliases:  []string{"t"},
			Usage:    "Operation timeout in milliseconds (TLS handshake, mux control operations)",
			Category: categoryNetwork,
			Value:    10000, // 10 seconds default
			Required: false,
		},
	}
}

const categoryShare = "share"

// VTFlag is the name of the flag to share a specific VT.
const VTFlag = "vt"

// MinVTFlag is the name of the flag for the minimum number when allocating.
const MinVTFlag = "min"

// AllowSwitchFlag is the name of the flag that lets guests request VT switches.
const AllowSwitchFlag = "allow-switch"

// GetShareFlags returns the CLI flags specific to the share command.
func GetShareFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     VTFlag,
			Aliases:  []string{},
			Usage:    "Share this VT instead of allocating a new one",
			Category: categoryShare,
			Value:    0,
			Required: false,
		},
		&cli.IntFlag{
			Name:     MinVTFlag,
			Aliases:  []string{"m"},
			Usage:    "Allocate a VT numbered at least this high",
			Category: categoryShare,
			Value:    0,
			Required: false,
		},
		&cli.BoolFlag{
			Name:     AllowSwitchFlag,
			Aliases:  []string{},
			Usage:    "Allow guests to request foreground VT switches",
			Category: categoryShare,
			Value:    false,
			Required: false,
		},
	}
}

const categoryJoin = "join"

// RequestVTFlag is the name of the flag to request a VT switch after joining.
const RequestVTFlag = "request-vt"

// GetJoinFlags returns the CLI flags specific to the join command.
func GetJoinFlags() []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:     RequestVTFlag,
			Aliases:  []string{"r"},
			Usage:    "Ask the host to switch to this VT after connecting",
			Category: categoryJoin,
			Value:    0,
			Required: false,
		},
	}
}
