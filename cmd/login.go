// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"localarb/cli/internal/terminal"
	"localarb/cli/internal/view"
)

var (
	loginGoogle bool
	loginEmail  string
)

// loginCmd signs the user in. Email sign-in creates the account on first
// use; Google sign-in runs the browser consent flow on a loopback redirect.
var loginCmd = &cobra.Command{
	Use:     "login",
	Aliases: []string{"auth"},
	Short:   "Sign in with email and password or with Google",
	Long: `The login command signs you in to Localarb.

With --google it opens Google's consent page in your browser and waits for you
to finish there. Otherwise it asks for an email and password; an email that has
no account yet is registered with the same password.

The session is stored in the OS keychain and reused by the other commands
until you run 'localarb logout'.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
		defer cancel()

		s, err := newSession()
		if err != nil {
			return err
		}
		if s.restore(ctx) {
			_, account := s.auth.Status()
			fmt.Printf("Already logged in as %s\n", account)
			return nil
		}

		if loginGoogle {
			spinner, _ := pterm.DefaultSpinner.Start("Waiting for Google sign-in")
			err = s.auth.SignInWithGoogle(ctx)
			if err != nil {
				spinner.Fail("Google sign-in failed")
			} else {
				spinner.Success("Signed in with Google")
			}
		} else {
			email, password, perr := askCredentials()
			if perr != nil {
				return perr
			}
			spinner, _ := pterm.DefaultSpinner.Start("Signing in")
			err = s.auth.SignInWithPassword(ctx, email, password)
			spinner.RemoveWhenDone = true
			_ = spinner.Stop()
		}
		if err != nil {
			s.term.Show(view.RegionAuth, view.Error(view.ErrorMessage(err, "Sign-in failed.")))
			return reported(err)
		}

		_, account := s.auth.Status()
		fmt.Println(randomGreeting(account))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "Sign in with Google in the browser")
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Email to sign in with")
}

func askCredentials() (email, password string, err error) {
	email = strings.TrimSpace(loginEmail)
	if email == "" {
		if email, err = terminal.ReadLine("Email: "); err != nil {
			return "", "", err
		}
	}
	if email == "" {
		return "", "", errors.New("email is required")
	}
	if password, err = terminal.ReadPassword("Password: "); err != nil {
		return "", "", err
	}
	if password == "" {
		return "", "", errors.New("password is required")
	}
	return email, password, nil
}

var greetings = []string{
	"👋 Welcome, %s!",
	"🚀 Signed in as %s. Let's find a market.",
	"✅ You're in, %s.",
}

func randomGreeting(account string) string {
	return fmt.Sprintf(greetings[rand.Intn(len(greetings))], account)
}
