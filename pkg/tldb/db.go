package tldb

import (
	"fmt"
	"os"
	"time"

	"github.com/apex/log"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SqliteInMemoryDSN is used by tests that want a throwaway local mirror.
// Callers should set MaxOpenConns to 1 so every statement sees the same
// in-memory database.
const SqliteInMemoryDSN = "file::memory:?_foreign_keys=on"

// SqliteDSN returns the DSN for the local mirror at path. Foreign keys are
// enforced on every connection so cascade deletes work on the reading tables.
func SqliteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on", path)
}

func MakeRemoteDSNFromEnv() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		os.Getenv("DB_USERNAME"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_HOST"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_DATABASE"))
}

var gormConfig = &gorm.Config{
	Logger: logger.Default.LogMode(logger.Silent),
}

// ConnectToLocalDB opens (creating if needed) the local sqlite mirror at path.
func ConnectToLocalDB(path string) (*gorm.DB, error) {
	return gorm.Open(sqlite.Open(SqliteDSN(path)), gormConfig)
}

// ConnectToRemoteDB opens a connection to the shared central database using
// the DB_* environment settings. Connectivity failures are returned to the
// caller; there is no retry here because a pull on login is allowed to fall
// back to the mirrored data.
func ConnectToRemoteDB() (*gorm.DB, error) {
	return gorm.Open(mysql.Open(MakeRemoteDSNFromEnv()), gormConfig)
}

const maxDBRetries = 5

// MustConnectToRemoteDB will attempt to connect to the central database
// maxDBRetries times. If it isn't successful after that number of retries then
// it will call log.Fatalf(), which will cause the process to exit. Between
// retry attempts it will sleep for 3 seconds.
func MustConnectToRemoteDB() *gorm.DB {
	var (
		err error
		db  *gorm.DB
	)

	retryCount := 1
	for {
		db, err = ConnectToRemoteDB()
		switch {
		case err == nil:
			return db
		case retryCount >= maxDBRetries:
			log.Fatalf("Failed to open remote db (%s): %s", MakeRemoteDSNFromEnv(), err)
		default:
			retryCount++
			time.Sleep(3 * time.Second)
		}
	}
}
