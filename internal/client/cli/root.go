package cli

import (
	"context"
	"fmt"
	"strings"
)

func (a *App) getStatus() string {
	var parts []string
	if t := a.resolver.Context().TenantID(); t != "" {
		parts = append(parts, t)
	}
	if loc := a.getLocation(); loc != "" {
		parts = append(parts, loc)
	}
	if m := a.getMode(); m != "" {
		parts = append(parts, string(m))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf(" (%s)", strings.Join(parts, " "))
}

// Root runs the REPL on stdin until the user exits or ctx ends.
func (a *App) Root(ctx context.Context) {
	a.printf("Welcome to shopkeeper (type 'help' for commands)\n")

	a.checkOnline(ctx)
	// restores the persisted tenant, or the one of a persisted session
	a.resolver.Resolve(ctx, "")

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}
