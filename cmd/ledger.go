package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"shopledger/internal/config"
	"shopledger/internal/ledger"
	"shopledger/internal/logger"
	"shopledger/internal/store"
)

// session is an opened ledger plus what is needed to release it.
type session struct {
	cfg    *config.Config
	ledger *ledger.Ledger
	store  store.DocumentStore
	ctx    context.Context
	cancel context.CancelFunc
	log    zerolog.Logger
}

func (s *session) Close() {
	if err := s.store.Close(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to close document store")
	}
	s.cancel()
}

// openSession loads the configuration, opens the configured store and the
// ledger on top of it.
func openSession(cmd *cobra.Command, component string) (*session, error) {
	log := logger.WithComponent(component)

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	timeoutSecs, _ := cmd.Flags().GetInt("timeout")
	ctx, cancel := commandContext(timeoutSecs, log)

	s, err := store.Open(ctx, cfg)
	if err != nil {
		cancel()
		log.Error().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open document store")
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreDriver, err)
	}

	l, err := ledger.Open(ctx, s, ledger.WithRestoreStockOnDelete(cfg.RestoreStockOnDelete))
	if err != nil {
		s.Close()
		cancel()
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}

	log.Debug().Str("driver", cfg.StoreDriver).Msg("Ledger session opened")

	return &session{cfg: cfg, ledger: l, store: s, ctx: ctx, cancel: cancel, log: log}, nil
}

// commandContext creates a context with timeout and signal handling
func commandContext(timeoutSecs int, log zerolog.Logger) (context.Context, context.CancelFunc) {
	if timeoutSecs <= 0 {
		timeoutSecs = 60
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeoutSecs)*time.Second)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigChan)
		select {
		case sig := <-sigChan:
			log.Info().
				Str("signal", sig.String()).
				Msg("Received interrupt signal, canceling operation")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}

// userError turns ledger errors into the message shown to the user
func userError(err error) error {
	if err == nil {
		return nil
	}

	var (
		ve *ledger.ValidationError
		fe *ledger.FormatError
		pe *ledger.PersistenceError
	)
	switch {
	case errors.As(err, &ve):
		return errors.New(ve.Message)
	case errors.As(err, &fe):
		return errors.New("Invalid JSON file")
	case errors.As(err, &pe):
		return fmt.Errorf("the change was applied but could not be saved: %w", pe.Err)
	case errors.Is(err, ledger.ErrCategoryInUse):
		return ledger.ErrCategoryInUse
	case errors.Is(err, ledger.ErrCustomerHasInvoices):
		return ledger.ErrCustomerHasInvoices
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("operation timed out. Try increasing --timeout")
	case errors.Is(err, context.Canceled):
		return fmt.Errorf("operation was canceled")
	default:
		return err
	}
}

// ItemSpec is a parsed --item flag: name:qty[:price]
type ItemSpec struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
}

// parseItemSpec parses "name:qty[:price]". The name may itself contain
// colons; quantity and price are taken from the right.
func parseItemSpec(raw string) (ItemSpec, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return ItemSpec{}, fmt.Errorf("invalid item %q: want name:qty[:price]", raw)
	}

	parsed := ItemSpec{Price: decimal.Zero}
	qtyIdx := len(parts) - 1
	if len(parts) >= 3 {
		if price, err := decimal.NewFromString(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			if _, qtyErr := strconv.Atoi(strings.TrimSpace(parts[len(parts)-2])); qtyErr == nil {
				parsed.Price = price
				qtyIdx = len(parts) - 2
			}
		}
	}

	qty, err := strconv.Atoi(strings.TrimSpace(parts[qtyIdx]))
	if err != nil {
		return ItemSpec{}, fmt.Errorf("invalid quantity in item %q: %w", raw, err)
	}
	parsed.Quantity = qty
	parsed.Name = strings.TrimSpace(strings.Join(parts[:qtyIdx], ":"))
	if parsed.Name == "" {
		return ItemSpec{}, fmt.Errorf("invalid item %q: name is empty", raw)
	}
	return parsed, nil
}

// decimalFlag reads a decimal from a string flag; empty means zero
func decimalFlag(cmd *cobra.Command, name string) (decimal.Decimal, error) {
	raw, _ := cmd.Flags().GetString(name)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, raw, err)
	}
	return d, nil
}

// money formats an amount with the currency symbol, masked in privacy mode
func money(currency string, d decimal.Decimal, private bool) string {
	if private {
		return currency + "****"
	}
	return currency + d.StringFixed(2)
}
