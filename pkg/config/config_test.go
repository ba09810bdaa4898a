package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// withMapConfig installs an in-memory Configer for the test so config reads
// never touch the process environment, and restores the previous one after.
func withMapConfig(t *testing.T, entries map[string]string) {
	t.Helper()

	previous := GetConfig()
	SetConfig(NewMapConfig(entries))
	t.Cleanup(func() {
		SetConfig(previous)
	})
}

func TestMapConfigDrivesThermalKeys(t *testing.T) {
	withMapConfig(t, map[string]string{
		DataRootKey:    "/srv/thermal",
		LocalDBPathKey: "/srv/thermal/mirror.db",
		PullNanoKey:    "true",
	})

	assert.Equal(t, "/srv/thermal", DataRoot())
	assert.Equal(t, "/srv/thermal/mirror.db", LocalDBPath())
	assert.True(t, PullNanothickness())
}

func TestPullNanothicknessDefaultsOff(t *testing.T) {
	withMapConfig(t, map[string]string{})

	assert.False(t, PullNanothickness())
}

func TestPullNanothicknessIgnoresGarbageValues(t *testing.T) {
	withMapConfig(t, map[string]string{PullNanoKey: "definitely"})

	assert.False(t, PullNanothickness())
}

func TestLocalDBPathDefaultsUnderDataRoot(t *testing.T) {
	withMapConfig(t, map[string]string{DataRootKey: "/srv/thermal"})

	assert.Equal(t, filepath.Join("/srv/thermal", "db", "app.db"), LocalDBPath())
}

func TestMapConfigKeyLookups(t *testing.T) {
	c := NewMapConfig(map[string]string{"A_KEY": "a-value"})

	assert.Equal(t, "a-value", c.GetKey("A_KEY"))
	assert.Equal(t, "", c.GetKey("MISSING"))
	assert.Equal(t, "fallback", c.GetKeyWithDefault("MISSING", "fallback"))
	assert.Error(t, c.LoadFromPath("/does/not/matter"))
}

func TestDotenvConfigLoadsFileIntoEnvironment(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".thermald.env")
	require.NoError(t, os.WriteFile(path, []byte("THERMAL_CONFIG_TEST_KEY=from-dotenv\n"), 0644))
	t.Cleanup(func() {
		_ = os.Unsetenv("THERMAL_CONFIG_TEST_KEY")
	})

	c := NewDotenvConfig(path)
	require.NoError(t, c.Load())

	assert.Equal(t, "from-dotenv", c.GetKey("THERMAL_CONFIG_TEST_KEY"))
	assert.Equal(t, "from-dotenv", c.GetKeyWithDefault("THERMAL_CONFIG_TEST_KEY", "fallback"))
}
