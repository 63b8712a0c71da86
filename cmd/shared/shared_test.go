package shared

import (
	"strings"
	"testing"

	"github.com/urfave/cli/v3"
)

func TestGetBaseDescription(t *testing.T) {
	t.Parallel()

	desc := GetBaseDescription()

	if desc == "" {
		t.Error("GetBaseDescription() should not return empty string")
	}

	if !strings.Contains(desc, "tcp") {
		t.Error("description should mention tcp protocol")
	}

	if !strings.Contains(desc, "ws") {
		t.Error("description should mention ws protocol")
	}
}

func TestGetArgsUsage(t *testing.T) {
	t.Parallel()

	usage := GetArgsUsage()

	if !strings.Contains(usage, "transport") {
		t.Error("usage should mention transport")
	}
}

func flagNames(flags []cli.Flag) map[string]bool {
	names := make(map[string]bool)
	for _, flag := range flags {
		for _, name := range flag.Names() {
			names[name] = true
		}
	}
	return names
}

func TestGetCommonFlags(t *testing.T) {
	t.Parallel()

	names := flagNames(GetCommonFlags())

	if !names[VerboseFlag] {
		t.Errorf("GetCommonFlags() missing flag %q", VerboseFlag)
	}
}

func TestGetConsoleFlags(t *testing.T) {
	t.Parallel()

	names := flagNames(GetConsoleFlags())

	if !names[ConsoleFlag] {
		t.Errorf("GetConsoleFlags() missing flag %q", ConsoleFlag)
	}
}

func TestGetNetworkFlags(t *testing.T) {
	t.Parallel()

	names := flagNames(GetNetworkFlags())

	for _, want := range []string{SSLFlag, KeyFlag, TimeoutFlag} {
		if !names[want] {
			t.Errorf("GetNetworkFlags() missing flag %q", want)
		}
	}
}

func TestGetShareFlags(t *testing.T) {
	t.Parallel()

	names := flagNames(GetShareFlags())

	for _, want := range []string{VTFlag, MinVTFlag, AllowSwitchFlag} {
		if !names[want] {
			t.Errorf("GetShareFlags() missing flag %q", want)
		}
	}
}

func TestGetJoinFlags(t *testing.T) {
	t.Parallel()

	names := flagNames(GetJoinFlags())

	if !names[RequestVTFlag] {
		t.Errorf("GetJoinFlags() missing flag %q", RequestVTFlag)
	}
}
