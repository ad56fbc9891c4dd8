package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"dermalink/mobile/internal/api"
	"dermalink/mobile/internal/config"
	"dermalink/mobile/internal/credstore"
	"dermalink/mobile/internal/log"
	"dermalink/mobile/internal/models"
	"dermalink/mobile/internal/nav"
	"dermalink/mobile/internal/session"
)

type app struct {
	cfg      *config.AppConfig
	log      zerolog.Logger
	store    *credstore.Store
	api      *api.Client
	resolver *session.Resolver
	router   *nav.Router
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "dermalink",
		Short:         "DermaLink appointment client",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}

	root.AddCommand(
		a.loginCmd(),
		a.logoutCmd(),
		a.whoamiCmd(),
		a.registerCmd(),
		a.confirmCmd(),
		a.doctorsCmd(),
		a.appointmentsCmd(),
		a.bookCmd(),
		a.requestsCmd(),
		a.chatCmd(),
		a.scanCmd(),
		a.maladiesCmd(),
		a.profileCmd(),
		a.watchCmd(),
	)
	return root
}

func (a *app) init() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = log.New(cfg.Environment)
	a.store = credstore.New(cfg.Store, a.log)
	a.api = api.New(cfg.API, a.log)
	a.resolver = session.New(a.store, a.api, cfg.API.Timeout, a.log)
	a.router = nav.NewRouter(a.resolver, a.log)
	return nil
}

// bootstrap runs the cold-start check: resolve the session, commit the
// routing decision, and report where the app landed.
func (a *app) bootstrap(ctx context.Context) (session.ViewState, nav.Screen, error) {
	vs, err := a.resolver.Resolve(ctx)
	if err != nil {
		var se *credstore.StorageError
		if errors.As(err, &se) {
			return vs, "", fmt.Errorf("local storage failed, try again: %w", err)
		}
		return vs, "", err
	}

	screen := a.router.Apply(vs)
	if notice := a.router.Notice(); notice != "" {
		fmt.Fprintln(os.Stderr, notice)
	}
	return vs, screen, nil
}

// requireRole bootstraps and demands an authenticated session; role is
// optional ("" accepts either subtree). Returns the verified user and the
// bearer token for follow-up calls.
func (a *app) requireRole(ctx context.Context, role models.Role) (models.User, string, error) {
	vs, screen, err := a.bootstrap(ctx)
	if err != nil {
		return models.User{}, "", err
	}

	switch vs.Kind {
	case session.Unreachable:
		return models.User{}, "", fmt.Errorf("backend unreachable; your session is kept, run the command again to retry")
	case session.Expired:
		return models.User{}, "", fmt.Errorf("session expired, sign in again with `dermalink login`")
	case session.Unauthenticated:
		return models.User{}, "", fmt.Errorf("not signed in, use `dermalink login`")
	}

	if role != "" && vs.Role != role {
		return models.User{}, "", fmt.Errorf("this command is only available to %ss", role)
	}
	if err := a.router.Enter(screen); err != nil {
		return models.User{}, "", err
	}

	sess, err := a.store.Load()
	if err != nil {
		return models.User{}, "", err
	}
	if sess == nil {
		return models.User{}, "", fmt.Errorf("not signed in, use `dermalink login`")
	}
	return vs.User, sess.Token, nil
}
