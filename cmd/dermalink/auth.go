package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"dermalink/mobile/internal/api"
	"dermalink/mobile/internal/nav"
	"dermalink/mobile/internal/security"
	"dermalink/mobile/internal/session"
)

func (a *app) loginCmd() *cobra.Command {
	var email, password, qrCode string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with email/password or a scanned QR code",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var vs session.ViewState
			var err error
			if qrCode != "" {
				vs, err = a.resolver.LoginQR(ctx, qrCode)
			} else {
				if email == "" || password == "" {
					return fmt.Errorf("either --qr or both --email and --password are required")
				}
				vs, err = a.resolver.Login(ctx, email, password)
			}
			if err != nil {
				if errors.Is(err, api.ErrAuthInvalid) || errors.Is(err, api.ErrAuthExpired) {
					return fmt.Errorf("sign in rejected, check your credentials")
				}
				if errors.Is(err, api.ErrUnreachable) {
					return fmt.Errorf("backend unreachable, try again")
				}
				return err
			}

			screen := a.router.Apply(vs)
			fmt.Printf("Signed in as %s (%s) -> %s\n", vs.User.FullName(), vs.Role, screen)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().StringVar(&qrCode, "qr", "", "QR session exchange code")
	return cmd
}

func (a *app) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and clear local credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.resolver.Logout(cmd.Context()); err != nil {
				return err
			}
			a.router.Logout()
			fmt.Println("Signed out.")
			return nil
		},
	}
}

func (a *app) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the resolved session state",
		RunE: func(cmd *cobra.Command, args []string) error {
			vs, screen, err := a.bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			switch vs.Kind {
			case session.Authenticated:
				fmt.Printf("%s (%s) <%s>\n", vs.User.FullName(), vs.Role, vs.User.Email)
			case session.Unreachable:
				fmt.Println("Backend unreachable; cached session kept, retry later.")
			case session.Expired:
				fmt.Println("Session expired, sign in again.")
			default:
				fmt.Println("Not signed in.")
			}
			if screen != "" && screen != nav.ScreenLanding {
				a.log.Debug().Str("screen", string(screen)).Msg("resolved root screen")
			}
			return nil
		},
	}
}

func (a *app) registerCmd() *cobra.Command {
	var input api.RegisterInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account (confirmation code arrives by email)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := security.ValidatePassword(input.Password); err != nil {
				return err
			}
			if err := a.api.Register(cmd.Context(), input); err != nil {
				return err
			}
			fmt.Println("Registered. Confirm your email with `dermalink confirm`.")
			return nil
		},
	}

	cmd.Flags().StringVar(&input.Firstname, "firstname", "", "first name")
	cmd.Flags().StringVar(&input.Lastname, "lastname", "", "last name")
	cmd.Flags().StringVar(&input.Email, "email", "", "email")
	cmd.Flags().StringVar(&input.Password, "password", "", "password")
	cmd.Flags().StringVar(&input.Location, "location", "", "governorate")
	cmd.Flags().StringVar(&input.Role, "role", "Patient", "Doctor or Patient")
	return cmd
}

func (a *app) confirmCmd() *cobra.Command {
	var email, code string

	cmd := &cobra.Command{
		Use:   "confirm",
		Short: "Confirm an email address with the 6-digit code",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(code) != 6 {
				return fmt.Errorf("the confirmation code is 6 digits")
			}
			if err := a.api.ConfirmEmail(cmd.Context(), email, code); err != nil {
				return fmt.Errorf("confirmation failed: %w", err)
			}
			fmt.Println("Account confirmed, you can sign in now.")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email to confirm")
	cmd.Flags().StringVar(&code, "code", "", "confirmation code")
	return cmd
}
