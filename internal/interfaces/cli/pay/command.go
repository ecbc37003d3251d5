package pay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	appcheckout "quickpay/internal/application/checkout"
	domain "quickpay/internal/domain/checkout"
	"quickpay/internal/infrastructure/checkout"
	"quickpay/internal/infrastructure/config"
	sharedConfig "quickpay/internal/shared/config"
	"quickpay/internal/shared/logger"
)

var (
	env       string
	amount    string
	serverURL string
	verbose   bool
)

// ErrPaymentNotCompleted is returned when the session ends without a successful payment.
var ErrPaymentNotCompleted = errors.New("payment not completed")

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay",
		Short: "Pay an amount through the terminal checkout",
		Long: `Create an order through the quickpay server and complete it in a terminal checkout.
The checkout prints its configuration and reads one of:
  success <payment_id>
  fail [description]
  dismiss`,
		Example:      `  quickpay pay --amount 500`,
		SilenceUsage: true,
		RunE:         run,
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount in rupees")
	cmd.Flags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")
	cmd.Flags().StringVar(&serverURL, "server-url", "", "Order server base URL (overrides checkout.server_url)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(env)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if serverURL != "" {
		cfg.Checkout.ServerURL = serverURL
	}

	// stdout belongs to the checkout prompt
	cfg.Logger.OutputPath = "stderr"
	if err := logger.Init(&cfg.Logger, verbose); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		logger.SetLevel(slog.LevelDebug)
	}
	log := logger.NewLogger()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	timeout := time.Duration(cfg.Checkout.TimeoutSecs) * time.Second
	factory := checkout.NewConsoleWidgetFactory(cmd.InOrStdin(), cmd.OutOrStdout(), log.Named("widget"))
	loader := checkout.NewScriptLoader(cfg.Checkout.ScriptURL, timeout, factory, log.Named("loader"))
	orders := checkout.NewOrderClient(cfg.Checkout.ServerURL, timeout, log.Named("orders"))

	ctrl := appcheckout.NewController(orders, loader, merchantFromConfig(&cfg.Checkout), log.Named("session"))
	defer ctrl.Close()

	session, err := runSession(ctx, ctrl, amount)
	if err != nil {
		return err
	}
	return report(cmd.OutOrStdout(), session)
}

// runSession mounts ctrl, submits rawAmount and blocks until the attempt
// resolves or ctx is cancelled.
func runSession(ctx context.Context, ctrl *appcheckout.Controller, rawAmount string) (domain.Session, error) {
	if strings.TrimSpace(rawAmount) == "" {
		return domain.Session{}, errors.New("amount is required")
	}

	done := make(chan domain.Session, 1)
	var once sync.Once
	unsubscribe := ctrl.Subscribe(func(s domain.Session) {
		if resolved(s) {
			once.Do(func() { done <- s })
		}
	})
	defer unsubscribe()

	if !ctrl.Mount(ctx) {
		return ctrl.Session(), nil
	}

	if !ctrl.Submit(ctx, rawAmount) {
		s := ctrl.Session()
		if resolved(s) {
			return s, nil
		}
		return s, fmt.Errorf("payment not started (status %s)", s.Status)
	}

	select {
	case s := <-done:
		return s, nil
	case <-ctx.Done():
		return ctrl.Session(), ctx.Err()
	}
}

func resolved(s domain.Session) bool {
	return s.Status.IsFinal() || (s.Status == domain.StatusIdle && s.Dismissed)
}

func report(w io.Writer, s domain.Session) error {
	switch {
	case s.Status == domain.StatusSucceeded:
		fmt.Fprintln(w, s.PaymentStatus)
		return nil
	case s.Dismissed:
		fmt.Fprintln(w, "Checkout closed before payment.")
	case s.Error != "":
		fmt.Fprintln(w, s.Error)
	}
	return ErrPaymentNotCompleted
}

func merchantFromConfig(cfg *sharedConfig.CheckoutConfig) appcheckout.Merchant {
	return appcheckout.Merchant{
		Name:        cfg.Name,
		Description: cfg.Description,
		Prefill: appcheckout.Prefill{
			Name:    cfg.Prefill.Name,
			Email:   cfg.Prefill.Email,
			Contact: cfg.Prefill.Contact,
		},
		Notes:      cfg.Notes,
		ThemeColor: cfg.ThemeColor,
	}
}
