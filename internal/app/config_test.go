package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ADhailu/Biruh-ken-bot/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

const validManualConfig = `
telegram:
  token: "test-token"
  admin_id: 999
  run_mode: longpoll
channel_id: -100123
payment:
  mode: manual
  accounts:
    - label: CBE
      number: "1000"
      holder: Holder
`

func TestLoadConfigManualDefaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, validManualConfig))
	require.NoError(t, err)

	require.Equal(t, domain.ModeManual, cfg.Mode())
	require.Equal(t, 300, cfg.Payment.Amount)
	require.Equal(t, "ETB", cfg.Payment.Currency)
	require.Equal(t, "memory", cfg.Store.Backend)
	require.Equal(t, int64(-100123), cfg.ChannelID)
	require.Equal(t, int64(999), cfg.Core.Telegram.AdminID)
	require.Len(t, cfg.DepositAccounts(), 1)
}

func TestLoadConfigRequiresChannel(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "test-token"
  admin_id: 999
payment:
  mode: manual
  accounts:
    - label: CBE
      number: "1000"
      holder: Holder
`))
	require.ErrorContains(t, err, "channel_id")
}

func TestLoadConfigManualRequiresAccounts(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "test-token"
  admin_id: 999
channel_id: -100123
payment:
  mode: manual
`))
	require.ErrorContains(t, err, "payment.accounts")
}

func TestLoadConfigInvoiceRequiresProviderToken(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, `
telegram:
  token: "test-token"
  admin_id: 999
channel_id: -100123
payment:
  mode: invoice
`))
	require.ErrorContains(t, err, "provider_token")
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validManualConfig+`
store:
  backend: redis
`))
	require.ErrorContains(t, err, "store.backend")
}

func TestLoadConfigPostgresRequiresDatabase(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, validManualConfig+`
store:
  backend: postgres
`))
	require.ErrorContains(t, err, "database.host")
}
