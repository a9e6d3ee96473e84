package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"
)

func (a *App) getStatus() string {
	a.mu.Lock()
	defer a.mu.Unlock()

	var parts []string
	if a.userName != "" {
		parts = append(parts, a.userName)
	}
	if a.Mode != "" {
		parts = append(parts, string(a.Mode))
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// startSession restores a stored token, or signs in with the configured one,
// and reconciles the cache with the server.
func (a *App) startSession(ctx context.Context) {
	restored, err := a.session.Restore(ctx)
	if err != nil {
		log.Printf("cache error: %v", err)
		return
	}

	if !restored {
		if a.config == nil || a.config.IdentityToken == "" {
			return
		}
		if err := a.signIn(ctx, a.config.IdentityToken); err != nil {
			log.Printf("Sign in unsuccessful: %s", describeError(err))
		}
		return
	}

	if err := a.Refresh(ctx); err != nil {
		log.Printf("Working from cache: %s", describeError(err))
	}
}

func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to Promptify CLI (type 'help' for commands)")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	a.startSession(ctx)

	if a.config != nil && a.config.OnlineCheckInterval > 0 {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}
