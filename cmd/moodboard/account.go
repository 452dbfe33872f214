package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/mindwell/moodboard/internal/api"
	"github.com/mindwell/moodboard/internal/config"
	"github.com/spf13/cobra"
)

func newLoginCommand(a *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and cache the session for the dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if email, err = a.ask("Email", email); err != nil {
				return err
			}
			if password, err = a.ask("Password", password); err != nil {
				return err
			}
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()

			user, err := a.client.Login(ctx, api.LoginRequest{Email: strings.TrimSpace(email), Password: password})
			if err != nil {
				return err
			}
			if err := config.SaveSession(sessionFromUser(user)); err != nil {
				return err
			}
			a.printf("Logged in as %s.\n", sessionFromUser(user).DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newLogoutCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the cached session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			// The server side is best effort; the local session always goes.
			if err := a.client.Logout(ctx); err != nil {
				log.Printf("logout: %v", err)
			}
			if err := config.ClearSession(); err != nil {
				return err
			}
			a.printf("Logged out.\n")
			return nil
		},
	}
}

func newRegisterCommand(a *app) *cobra.Command {
	var req api.RegisterRequest
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			for _, f := range []struct {
				label string
				dst   *string
			}{
				{"First name", &req.FirstName},
				{"Last name", &req.LastName},
				{"Email", &req.Email},
				{"Password", &req.Password},
			} {
				if *f.dst, err = a.ask(f.label, *f.dst); err != nil {
					return err
				}
			}
			req.FirstName = strings.TrimSpace(req.FirstName)
			req.LastName = strings.TrimSpace(req.LastName)
			req.Email = strings.TrimSpace(req.Email)

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			user, err := a.client.Register(ctx, req)
			if err != nil {
				return err
			}
			if err := config.SaveSession(sessionFromUser(user)); err != nil {
				return err
			}
			a.printf("Welcome, %s! Your account is ready.\n", sessionFromUser(user).DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&req.Email, "email", "", "account email")
	cmd.Flags().StringVar(&req.Password, "password", "", "password (prompted when omitted)")
	return cmd
}

func newProfileCommand(a *app) *cobra.Command {
	var (
		firstName, lastName, email string
		current, next, confirm     string
	)
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or update your profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.session()
			if err != nil {
				return err
			}
			changed := cmd.Flags().Changed
			if !changed("first-name") && !changed("last-name") && !changed("email") && !changed("new-password") {
				a.printf("Name:   %s %s\nEmail:  %s\nSince:  %s\n",
					session.FirstName, session.LastName, session.Email, orDash(session.CreatedAt))
				return nil
			}

			req := api.ProfileUpdate{
				ID:          session.UserID,
				FirstName:   pick(changed("first-name"), firstName, session.FirstName),
				LastName:    pick(changed("last-name"), lastName, session.LastName),
				Email:       pick(changed("email"), email, session.Email),
				NewPassword: next,
			}
			if req.CurrentPassword, err = a.ask("Current password", current); err != nil {
				return err
			}
			if err := api.ValidateProfileUpdate(&req, confirm); err != nil {
				return err
			}

			ctx, cancel := a.requestContext(cmd.Context())
			defer cancel()
			user, err := a.client.UpdateProfile(ctx, req)
			if err != nil {
				return err
			}
			updated := sessionFromUser(user)
			if updated.CreatedAt == "" {
				updated.CreatedAt = session.CreatedAt
			}
			if err := config.SaveSession(updated); err != nil {
				return err
			}
			a.printf("Profile updated.\n")
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&firstName, "first-name", "", "new first name")
	f.StringVar(&lastName, "last-name", "", "new last name")
	f.StringVar(&email, "email", "", "new email")
	f.StringVar(&current, "current-password", "", "current password (prompted when omitted)")
	f.StringVar(&next, "new-password", "", "new password")
	f.StringVar(&confirm, "confirm-password", "", "repeat the new password")
	return cmd
}

func newDeleteAccountCommand(a *app) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete-account",
		Short: "Permanently delete your account and all of its data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			session, err := a.session()
			if err != nil {
				return err
			}
			if !yes {
				answer, err := a.ask(fmt.Sprintf("Type %q to delete your account", session.Email), "")
				if err != nil {
					return err
				}
				if strings.TrimSpace(answer) != session.Email {
					a.printf("Aborted.\n")
					return nil
				}
			}
			return deleteAccount(cmd.Context(), a, session)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func deleteAccount(parent context.Context, a *app, session config.Session) error {
	ctx, cancel := a.requestContext(parent)
	defer cancel()
	if err := a.client.DeleteAccount(ctx, session.UserID); err != nil {
		return err
	}
	if err := config.ClearSession(); err != nil {
		return err
	}
	a.printf("Your account has been deleted.\n")
	return nil
}

func pick(use bool, value, fallback string) string {
	if use {
		return value
	}
	return fallback
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
