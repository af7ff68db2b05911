package repo

import (
	"path/filepath"
	"testing"
	"time"

	cp "github.com/otiai10/copy"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalConfig(t *testing.T) {
	root := t.TempDir()

	_, err := UnmarshalConfig(root)
	require.NotNil(t, err)

	err = cp.Copy(filepath.Join("testdata", ConfigName), filepath.Join(root, ConfigName))
	require.Nil(t, err)

	config, err := UnmarshalConfig(root)
	require.Nil(t, err)
	require.Equal(t, root, config.RepoRoot)
	require.Equal(t, int64(9000), config.Port.Http)
	require.True(t, config.Bridge.Airdrop)
	require.Equal(t, "9q5thPnZG7FKKNr61wceXdfuy2QRLYky8RTJonh2YzyB", config.Bridge.ProgramID)
	require.False(t, config.Monitor.Enable)
	require.Equal(t, 250*time.Millisecond, config.Monitor.RetryInterval)
	require.Equal(t, uint(3), config.Monitor.RetryAttempts)
	require.True(t, config.Log.ReportCaller)
	require.Equal(t, "warn", config.Log.Module.EventLog)
	require.Equal(t, "error", config.Log.Module.Monitor)
}
