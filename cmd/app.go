package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"fbrportal/internal/api"
	"fbrportal/internal/config"
	"fbrportal/internal/logger"
	"fbrportal/internal/notify"
	"fbrportal/internal/session"
)

// app is what every backend command needs: configuration, the API client and
// the restored session.
type app struct {
	cfg      *config.Config
	client   *api.Client
	session  *session.Store
	notifier notify.Notifier
	log      zerolog.Logger
}

// errEmptyResponse is returned when the backend answers a lookup with no body.
var errEmptyResponse = errors.New("the backend returned an empty response")

// userError carries the message shown to the user while keeping the
// underlying error for errors.Is checks.
type userError struct {
	msg string
	err error
}

func (e *userError) Error() string { return e.msg }

func (e *userError) Unwrap() error { return e.err }

// loadConfig reads the environment, falling back to the defaults when it is
// invalid.
func loadConfig(log zerolog.Logger) *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Could not load configuration, using defaults")
		return config.Default()
	}
	return cfg
}

// openApp builds the API client, wires it to the session store and restores
// the saved session. An expired session is reported and cleared; the command
// still runs and its guard decides whether a session is needed.
func openApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	log := logger.WithComponent("app")
	cfg := loadConfig(log)

	client, err := api.NewClient(cfg.GetAPIConfig())
	if err != nil {
		log.Error().Err(err).Str("base_url", cfg.APIBaseURL).Msg("Failed to create API client")
		return nil, fmt.Errorf("failed to create API client: %w", err)
	}

	store := session.NewStore(client, session.NewFileTokenStore(cfg.SessionFile))
	client.SetTokenSource(store)
	client.OnUnauthorized(store.ForceLogout)
	store.OnChange(func(st session.State) {
		log.Debug().Str("status", string(st.Status)).Bool("tenant_scoped", !st.TenantID.IsZero()).Msg("Session changed")
	})

	a := &app{
		cfg:      cfg,
		client:   client,
		session:  store,
		notifier: notify.NewConsole(cmd.ErrOrStderr()),
		log:      log,
	}

	if _, err := store.Bootstrap(ctx); err != nil {
		if errors.Is(err, session.ErrSessionExpired) {
			a.notifier.Info("Your session has expired. Please log in again.")
		} else {
			log.Warn().Err(err).Msg("Session restore failed")
		}
	}
	return a, nil
}

// state returns the current session after checking guard.
func (a *app) state(guard func(session.State) error) (session.State, error) {
	st := a.session.Snapshot()
	if err := guard(st); err != nil {
		return st, err
	}
	if !st.TenantID.IsZero() {
		a.log = logger.WithTenantID(a.log, st.TenantID.String())
	}
	return st, nil
}

// fail logs err and converts it into the message the user sees. action
// completes the not-authorized notice; fallback replaces the generic message.
func (a *app) fail(err error, action, fallback string) error {
	if err == nil {
		return nil
	}
	msg := notify.FromError(err, action, fallback)
	a.log.Error().Err(err).Str("action", action).Msg(msg)
	return &userError{msg: msg, err: err}
}

// commandContext creates a context with the --timeout deadline and signal
// handling. An explicit --timeout 0 disables the deadline.
func commandContext(cmd *cobra.Command, log zerolog.Logger) (context.Context, context.CancelFunc) {
	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	if timeoutSecs == 0 && cmd.Flags().Changed("timeout") {
		return signalContext(cmd, log, 0)
	}
	if timeoutSecs <= 0 {
		timeoutSecs = int(config.DefaultTimeout / time.Second)
	}
	return signalContext(cmd, log, time.Duration(timeoutSecs)*time.Second)
}

// signalContext cancels on SIGINT/SIGTERM and, when timeout is positive,
// after timeout.
func signalContext(cmd *cobra.Command, log zerolog.Logger, timeout time.Duration) (context.Context, context.CancelFunc) {
	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling command")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
