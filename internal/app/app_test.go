package app

import (
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/meshplus/unicity-bridge/internal/loggers"
	"github.com/meshplus/unicity-bridge/internal/repo"
	"github.com/stretchr/testify/require"
)

func TestApp(t *testing.T) {
	root := t.TempDir()
	config := repo.DefaultConfig()
	config.RepoRoot = root
	config.Port.Http = 0
	config.Monitor.RetryInterval = 10 * time.Millisecond
	loggers.InitializeLogger(config)

	app, err := NewApp(root, config)
	require.Nil(t, err)
	require.Nil(t, app.Start())

	admin := solana.NewWallet().PublicKey()
	user := solana.NewWallet().PublicKey()
	_, err = app.Program().Initialize(admin, admin)
	require.Nil(t, err)
	require.Nil(t, app.Host().Airdrop(user, 100))
	lock, err := app.Program().LockValue(user, 60, "unicity_recipient")
	require.Nil(t, err)
	require.Equal(t, uint64(1), lock.Nonce)

	require.Eventually(t, func() bool {
		return app.monitor.Cursor().Nonce == 1
	}, 2*time.Second, 10*time.Millisecond)
	require.Nil(t, app.Stop())

	app, err = NewApp(root, config)
	require.Nil(t, err)
	defer app.Stop()

	ledger, err := app.Program().State()
	require.Nil(t, err)
	require.Equal(t, admin, ledger.Admin)
	require.Equal(t, uint64(60), ledger.TotalLocked)
	require.Equal(t, uint64(1), ledger.Nonce)

	balance, err := app.Program().VaultBalance()
	require.Nil(t, err)
	require.Equal(t, uint64(60), balance)
	require.Equal(t, uint64(2), app.log.Last())
	require.Equal(t, uint64(1), app.monitor.Cursor().Nonce)
}

func TestInvalidProgramID(t *testing.T) {
	config := repo.DefaultConfig()
	config.Bridge.ProgramID = "not-a-key"
	loggers.InitializeLogger(config)

	_, err := NewApp(t.TempDir(), config)
	require.NotNil(t, err)
}
