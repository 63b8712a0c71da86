// Package format holds small string formatting helpers.
package format

import (
	"fmt"
	"strings"
)

// Addr joins host and port, bracketing IPv6 literals.
func Addr(host string, port int) string {
	if strings.ContainsAny(host, ":") {
		return fmt.Sprintf("[%s]:%d", host, port)
	}
	return fmt.Sprintf("%s:%d", host, port)
}
