package config

import (
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// Config keys. Remote connection settings use the DB_* keys read by
// tldb.MakeRemoteDSNFromEnv.
const (
	DataRootKey     = "THERMAL_DATA_ROOT"
	LocalDBPathKey  = "THERMAL_DB_PATH"
	PullNanoKey     = "THERMAL_PULL_NANO"
	dotenvFileName  = ".thermald.env"
	defaultDataDir  = "thermal-data"
	defaultDBSubdir = "db"
	defaultDBFile   = "app.db"
)

// MustLoadFromThermalDotenv loads ~/.thermald.env into the environment when
// it exists and returns the process-wide Configer. A missing dotenv file is
// fine; everything has a default or can come from the environment directly.
func MustLoadFromThermalDotenv() Configer {
	home, err := homedir.Dir()
	if err != nil {
		return GetConfig()
	}

	path := filepath.Join(home, dotenvFileName)
	if _, err := os.Stat(path); err == nil {
		_ = LoadFromPath(path)
	}

	return GetConfig()
}

// DataRoot is the directory holding one folder per device plus the local
// database directory.
func DataRoot() string {
	root := GetKeyWithDefault(DataRootKey, "")
	if root != "" {
		return root
	}

	home, err := homedir.Dir()
	if err != nil {
		return defaultDataDir
	}

	return filepath.Join(home, defaultDataDir)
}

// LocalDBPath is where the sqlite mirror lives.
func LocalDBPath() string {
	path := GetKeyWithDefault(LocalDBPathKey, "")
	if path != "" {
		return path
	}

	return filepath.Join(DataRoot(), defaultDBSubdir, defaultDBFile)
}

// PullNanothickness reports whether full pulls should also refresh the
// nanothickness table. Off unless explicitly turned on.
func PullNanothickness() bool {
	return GetConfig().GetBoolKeyWithDefault(PullNanoKey, false)
}
