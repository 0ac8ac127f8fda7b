package ledger

import (
	"context"
	"strings"

	"shopledger/pkg/models"
)

// SettingsInput holds the editable settings.
type SettingsInput struct {
	BusinessName    string `validate:"required"`
	BusinessEmail   string `validate:"omitempty,email"`
	BusinessPhone   string
	BusinessAddress string
	InvoicePrefix   string `validate:"required"`
	InvoiceStart    int    `validate:"min=1"`
	Currency        string `validate:"required"`
	PrivacyMode     bool
}

// SettingsInputFrom returns an input prefilled with s, so callers can change
// single fields.
func SettingsInputFrom(s models.Settings) SettingsInput {
	return SettingsInput(s)
}

// Settings returns the current settings.
func (l *Ledger) Settings() models.Settings {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.doc.Settings
}

// UpdateSettings replaces the settings. Changing the prefix or start only
// affects numbers handed out afterwards.
func (l *Ledger) UpdateSettings(ctx context.Context, in SettingsInput) (models.Settings, error) {
	const op = "UpdateSettings"

	l.mu.Lock()
	defer l.mu.Unlock()

	in.BusinessName = strings.TrimSpace(in.BusinessName)
	in.BusinessEmail = strings.TrimSpace(in.BusinessEmail)
	in.InvoicePrefix = strings.TrimSpace(in.InvoicePrefix)
	in.Currency = strings.TrimSpace(in.Currency)
	if err := l.checkStruct("Settings", in); err != nil {
		return models.Settings{}, err
	}

	next := l.doc.Clone()
	next.Settings = models.Settings(in)
	if err := l.commit(ctx, op, next); err != nil {
		return next.Settings, err
	}

	l.log.Info().
		Str("prefix", next.Settings.InvoicePrefix).
		Int("start", next.Settings.InvoiceStart).
		Msg("Settings updated")
	return next.Settings, nil
}
