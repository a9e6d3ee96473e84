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
	isLoggedIn() bool
	Login(ctx context.Context) error
	Whoami(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context, promptID string) error
	Unlock(ctx context.Context, promptID string) error
	Reveal(ctx context.Context, promptID string) error
	Library(ctx context.Context) error
	Refresh(ctx context.Context) error
	Logout(ctx context.Context) error
}

// runREPL reads commands from scanner and dispatches them to a until EOF,
// "exit" or "quit". Commands taking a prompt id print their usage when it is
// missing. Handler errors are reported by the handlers themselves.
//
//	help, login, whoami, list, show <id>, unlock <id>, reveal <id>,
//	library, refresh, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("promptify %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		withID := func(name string, fn func(context.Context, string) error) {
			if len(args) == 0 {
				printlnFn(fmt.Sprintf("Usage: %s <prompt id>", name))
				return
			}
			_ = fn(ctx, args[0])
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, (l)ist, show <id>, unlock <id>, reveal <id>, library, refresh, logout, exit")
			} else {
				printlnFn("Available commands: login, (l)ist, show <id>, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "whoami":
			_ = a.Whoami(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "show":
			withID("show", a.Show)

		case "unlock":
			withID("unlock", a.Unlock)

		case "reveal":
			withID("reveal", a.Reveal)

		case "library":
			_ = a.Library(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
