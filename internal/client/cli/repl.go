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
	isViewing() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Profile(ctx context.Context) error
	Subjects(ctx context.Context) error
	Notes(ctx context.Context) error
	OpenNote(ctx context.Context) error
	Next(ctx context.Context) error
	Prev(ctx context.Context) error
	Zoom(ctx context.Context) error
	Refresh(ctx context.Context) error
	Reset(ctx context.Context) error
	CloseNote(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the studyport CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - profile        — show subscription and entitlements
//	  - subjects       — list subjects
//	  - notes          — list notes of a subject (interactive prompt)
//	  - open           — open a note for reading (interactive prompt)
//	  - sync           — flush cached reading progress to the server
//	  - logout         — log out
//	  - exit | quit    — leave the program
//
//	While a note is open, additionally:
//	  - (n)ext, (p)rev — page navigation
//	  - zoom           — set the zoom factor
//	  - refresh        — re-acquire the viewing session
//	  - reset          — revoke other viewing sessions and retry
//	  - close          — close the note
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("sp> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			switch {
			case a.isViewing():
				printlnFn("Available commands: (n)ext, (p)rev, zoom, refresh, reset, close, sync, logout, exit")
			case a.isLoggedIn():
				printlnFn("Available commands: profile, subjects, notes, open, sync, logout, exit")
			default:
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "profile":
			_ = a.Profile(ctx)

		case "subjects":
			_ = a.Subjects(ctx)

		case "notes":
			_ = a.Notes(ctx)

		case "open":
			_ = a.OpenNote(ctx)

		case "n", "next":
			_ = a.Next(ctx)

		case "p", "prev":
			_ = a.Prev(ctx)

		case "zoom":
			_ = a.Zoom(ctx)

		case "refresh":
			_ = a.Refresh(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "close":
			_ = a.CloseNote(ctx)

		case "sync":
			_ = a.Sync(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
