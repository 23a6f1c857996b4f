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
	Logout(ctx context.Context) error
	Enroll(ctx context.Context) error
	Pay(ctx context.Context) error
	Members(ctx context.Context) error
	Payments(ctx context.Context) error
	Pending(ctx context.Context) error
	Sync(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the field agent client.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Commands share the reader, so prompts they
// issue consume the lines that follow. The loop exits on EOF or when the
// user types "exit" or "quit".
//
// Commands:
//
//	help                 show available commands
//	login | logout       start or end the operator session
//	enroll               enroll a new member
//	pay                  record a payment
//	members | payments   list local records
//	pending              show records waiting for sync
//	sync                 run a sync pass now
//	exit | quit          leave the program
//
// Errors returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("fs %s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: enroll, pay, members, payments, pending, sync, logout, exit")
			} else {
				printlnFn("Available commands: login, enroll, pay, members, payments, pending, exit")
			}
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "enroll":
			cmdErr = a.Enroll(ctx)
		case "pay":
			cmdErr = a.Pay(ctx)
		case "members":
			cmdErr = a.Members(ctx)
		case "payments":
			cmdErr = a.Payments(ctx)
		case "pending":
			cmdErr = a.Pending(ctx)
		case "sync":
			cmdErr = a.Sync(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", cmdErr)
		}
	}
}
