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
	isAdmin() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Status(ctx context.Context) error
	Passwd(ctx context.Context, target string) error
	ListUsers(ctx context.Context) error
	AddUser(ctx context.Context, username string) error
	RemoveUser(ctx context.Context, username string) error
	ToggleRole(ctx context.Context, username string) error
}

// runREPL starts a simple read–eval–print loop for the console.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//
//	Logged out:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - status         — show identity, role and last password change
//	  - passwd         — change your own password
//	  - logout         — log out
//
//	Admins additionally:
//	  - list           — fetch and show the full account list
//	  - add <user>     — create an account
//	  - passwd <user>  — change an account's password
//	  - remove <user>  — delete an account
//	  - role <user>    — toggle an account's admin role
//
// Any errors returned by command handlers are ignored here; handlers surface
// their own advisories. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("auth> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			switch {
			case !a.isLoggedIn():
				printlnFn("Available commands: login, exit")
			case a.isAdmin():
				printlnFn("Available commands: (l)ist, add <user>, passwd [user], remove <user>, role <user>, status, logout, exit")
			default:
				printlnFn("Available commands: status, passwd, logout, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status", "whoami":
			_ = a.Status(ctx)

		case "passwd":
			target := ""
			if len(args) > 0 {
				target = args[0]
			}
			_ = a.Passwd(ctx, target)

		case "l", "list":
			_ = a.ListUsers(ctx)

		case "add":
			if len(args) == 0 {
				printlnFn("Usage: add <user>")
				continue
			}
			_ = a.AddUser(ctx, args[0])

		case "remove":
			if len(args) == 0 {
				printlnFn("Usage: remove <user>")
				continue
			}
			_ = a.RemoveUser(ctx, args[0])

		case "role":
			if len(args) == 0 {
				printlnFn("Usage: role <user>")
				continue
			}
			_ = a.ToggleRole(ctx, args[0])

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
