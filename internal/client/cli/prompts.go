package cli

import (
	"context"
	"fmt"
)

func (a *App) List(ctx context.Context) error {
	list, err := a.catalog.List(ctx)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.w(), "No prompts yet")
		return nil
	}
	for _, p := range list {
		printPromptLine(a.w(), p)
	}
	return nil
}

func (a *App) Show(ctx context.Context, promptID string) error {
	p, err := a.catalog.Get(ctx, promptID)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	printPromptDetails(a.w(), p)
	return nil
}

// Unlock spends a coin on promptID and prints its text.
func (a *App) Unlock(ctx context.Context, promptID string) error {
	r, err := a.unlocks.RequestUnlock(ctx, promptID)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}

	switch {
	case r.AlreadyOwned:
		fmt.Fprintf(a.w(), "Already owned, %d coins left\n", r.CoinsLeft)
	default:
		fmt.Fprintf(a.w(), "Unlocked, %d coins left\n", r.CoinsLeft)
	}

	if r.CacheStale {
		fmt.Fprintln(a.w(), "Local cache could not be updated, balance shown may be out of date. Run 'refresh'")
	}

	if !r.Available {
		fmt.Fprintln(a.w(), "Prompt text is not available right now, try 'reveal' later")
		return nil
	}
	printSecret(a.w(), r.Secret)
	return nil
}

// Reveal prints the text of an owned prompt.
func (a *App) Reveal(ctx context.Context, promptID string) error {
	r, err := a.unlocks.Reveal(ctx, promptID)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	printSecret(a.w(), r.Secret)
	return nil
}

// Library lists owned prompts.
func (a *App) Library(ctx context.Context) error {
	sess, err := a.session.Current(ctx)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	if len(sess.Grants) == 0 {
		fmt.Fprintln(a.w(), "Library is empty")
		return nil
	}

	list, err := a.catalog.List(ctx)
	if err != nil {
		// Offline: ids are all the cache knows.
		for id := range sess.Grants {
			fmt.Fprintln(a.w(), id)
		}
		return nil
	}
	for _, p := range list {
		if p.Owned {
			printPromptLine(a.w(), p)
		}
	}
	return nil
}
