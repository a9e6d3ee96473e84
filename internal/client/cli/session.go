package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/dmitrijs2005/promptify/internal/client/models"
)

// getSecret is an indirection over GetSecret so tests can feed a token.
var getSecret = GetSecret

func (a *App) signIn(ctx context.Context, token string) error {
	sess, err := a.session.SignIn(ctx, token)
	if err != nil {
		return err
	}
	a.setUserName(sess.Profile.DisplayName)
	fmt.Fprintf(a.w(), "Signed in as %s, %d coins\n", sess.Profile.DisplayName, sess.Profile.Coins)
	return nil
}

// Login asks for an identity token without echo and signs in with it.
func (a *App) Login(ctx context.Context) error {
	token, err := getSecret("Paste identity token", os.Stdout)
	if err != nil {
		return err
	}
	if err := a.signIn(ctx, token); err != nil {
		log.Printf("Login unsuccessful: %s", describeError(err))
		return err
	}
	return nil
}

// Whoami prints the cached profile.
func (a *App) Whoami(ctx context.Context) error {
	sess, err := a.session.Current(ctx)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	printProfile(a, sess)
	return nil
}

// Refresh re-reads the profile and grants from the server.
func (a *App) Refresh(ctx context.Context) error {
	sess, err := a.session.Reconcile(ctx)
	if err != nil {
		fmt.Fprintln(a.w(), describeError(err))
		return err
	}
	a.setUserName(sess.Profile.DisplayName)
	printProfile(a, sess)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.SignOut(ctx); err != nil {
		log.Printf("Logout error: %v", err)
		return err
	}
	a.setUserName("")
	fmt.Fprintln(a.w(), "Signed out")
	return nil
}

func printProfile(a *App, sess *models.Session) {
	p := sess.Profile
	fmt.Fprintf(a.w(), "%s", p.DisplayName)
	if p.Email != "" {
		fmt.Fprintf(a.w(), " <%s>", p.Email)
	}
	fmt.Fprintf(a.w(), "\nCoins: %d\nRole: %s\nOwned prompts: %d\n", p.Coins, strings.ToLower(p.Role), len(sess.Grants))
}
