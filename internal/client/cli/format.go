package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/promptify/internal/client/client"
	"github.com/dmitrijs2005/promptify/internal/client/models"
)

// describeError turns client sentinels into user-facing text.
func describeError(err error) string {
	switch {
	case errors.Is(err, client.ErrNotAuthenticated):
		return "not signed in, use 'login'"
	case errors.Is(err, client.ErrInsufficientBalance):
		return "not enough coins"
	case errors.Is(err, client.ErrForbidden):
		return "you do not own this prompt, use 'unlock <id>'"
	case errors.Is(err, client.ErrNotFound):
		return "prompt not found"
	case errors.Is(err, client.ErrInvalidArgument):
		return "invalid prompt id"
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, try again later"
	default:
		return err.Error()
	}
}

func printPromptLine(w io.Writer, p *models.Prompt) {
	marks := ""
	if p.Owned {
		marks += " [owned]"
	}
	if p.IsTrending {
		marks += " [trending]"
	}
	fmt.Fprintf(w, "%s  %s  (%s, %s, %.1f★, %d unlocks)%s\n",
		p.ID, p.Title, p.Category, p.AIModel, p.RatingAvg, p.UnlockCount, marks)
}

func printPromptDetails(w io.Writer, p *models.Prompt) {
	fmt.Fprintf(w, "ID:          %s\n", p.ID)
	fmt.Fprintf(w, "Title:       %s\n", p.Title)
	if p.Description != "" {
		fmt.Fprintf(w, "Description: %s\n", p.Description)
	}
	fmt.Fprintf(w, "Model:       %s\n", p.AIModel)
	fmt.Fprintf(w, "Category:    %s\n", p.Category)
	fmt.Fprintf(w, "Author:      %s\n", p.Author)
	fmt.Fprintf(w, "Rating:      %.1f\n", p.RatingAvg)
	fmt.Fprintf(w, "Unlocks:     %d\n", p.UnlockCount)
	if p.ImageURL != "" {
		fmt.Fprintf(w, "Image:       %s\n", p.ImageURL)
	}
	if p.Owned {
		fmt.Fprintln(w, "Owned:       yes")
	}
}

func printSecret(w io.Writer, text string) {
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, text)
	fmt.Fprintln(w, strings.Repeat("-", 40))
}
