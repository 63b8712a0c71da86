// Package log provides colored console output for vtkit commands.
package log

import (
	"os"
	"sync/atomic"

	"github.com/fatih/color"
)

var red = color.New(color.FgRed).FprintfFunc()
var blue = color.New(color.FgBlue).FprintfFunc()
var yellow = color.New(color.FgYellow).FprintfFunc()

var verbose atomic.Bool

// EnableVerbose turns on output of VerboseMsg messages process-wide.
func EnableVerbose() {
	verbose.Store(true)
}

// ErrorMsg prints an error message to stderr in red color.
func ErrorMsg(format string, a ...interface{}) {
	red(os.Stderr, "[!] Error: "+format, a...)
}

// InfoMsg prints an informational message to stderr in blue color.
func InfoMsg(format string, a ...interface{}) {
	blue(os.Stderr, "[+] "+format, a...)
}

// VerboseMsg prints a message to stderr in yellow color, but only if
// verbose output has been enabled.
func VerboseMsg(format string, a ...interface{}) {
	if !verbose.Load() {
		return
	}
	yellow(os.Stderr, "[*] "+format, a...)
}
