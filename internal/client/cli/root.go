package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) getStatus() string {
	s := ""
	if a.userEmail != "" {
		s = a.userEmail + " "
	}
	if m := a.mode(); m != "" {
		s = s + string(m)
	}
	if a.view != nil {
		s = fmt.Sprintf("%s p.%d/%d", s, a.view.Page(), a.view.PageCount())
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive loop until the user exits or input ends.
func (a *App) Root(ctx context.Context) {
	printlnFn("Welcome to the studyport CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)

	runREPL(ctx, a, a.getStatus, scanner)
}
