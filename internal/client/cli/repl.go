package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn(ctx context.Context) bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Open(ctx context.Context, target string) error
	Onboard(ctx context.Context) error
	Usage(ctx context.Context) error
	AdminUsage(ctx context.Context, args []string) error
}

// runREPL reads commands line by line and dispatches them to a until the
// reader is exhausted or the user types "exit" or "quit".
//
//	Always:
//	  - help                      show available commands
//	  - login [token]             start a session from a bearer token
//	  - login dev <tenant> [role] ask the dev backend for a token
//	  - open <path>               navigate, e.g. open /catalog?tenantId=t-1
//	  - onboard                   provision a new tenant
//	  - exit | quit               leave the program
//
//	Logged in:
//	  - whoami                    show the session claims
//	  - usage                     usage and billing of the active tenant
//	  - admin-usage [k=v ...]     usage across tenants (from, to, metrics, page, size)
//	  - logout                    end the session
//
// Command errors are printed and the loop goes on.
//
// Commands that prompt read from the same reader, so reader must be the one
// the App was built with.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("shop%s> ", statusFn()))
		line, readErr := reader.ReadString('\n')
		if readErr != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn(ctx) {
				printlnFn("Available commands: open, usage, admin-usage, whoami, onboard, logout, exit")
			} else {
				printlnFn("Available commands: login, open, onboard, exit")
			}

		case "login":
			err = a.Login(ctx, args)

		case "logout":
			err = a.Logout(ctx)

		case "whoami":
			err = a.WhoAmI(ctx)

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <path>")
				continue
			}
			err = a.Open(ctx, args[0])

		case "onboard":
			err = a.Onboard(ctx)

		case "usage":
			err = a.Usage(ctx)

		case "admin-usage":
			err = a.AdminUsage(ctx, args)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err)
		}
	}
}
