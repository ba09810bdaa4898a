package stor

import (
	"github.com/thermal-commons/thermald/pkg/tldb/config"
	"gorm.io/gorm"
)

// WithTxRetry runs fn in a transaction, retrying up to the configured count.
// Every failure is retried, including constraint violations that can never
// succeed; those just fail retryCount times before surfacing. The retry is
// aimed at sqlite busy/locked errors and keeps fn's contract simple: fn must
// be safe to re-run from scratch.
func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	retryCount := config.GetTxRetry()

	if retryCount < 3 {
		retryCount = 3
	}

	for i := 0; i < retryCount; i++ {
		err = db.Transaction(fn)
		if err == nil {
			break
		}
	}

	return err
}
