package stor

import (
	"gorm.io/gorm"
)

// GormMirrorStor implements the full-refresh side of the local mirror. The
// wipe and the reload happen inside one transaction, so a failed pull leaves
// the previous mirror contents untouched.
type GormMirrorStor struct {
	db *gorm.DB
}

func NewGormMirrorStor(db *gorm.DB) *GormMirrorStor {
	return &GormMirrorStor{db: db}
}

// clearOrder is child-to-parent so the deletes don't trip over the foreign
// key constraints.
var clearOrder = []string{
	"cole_cole",
	"standard_plot",
	"nanothickness",
	"measurements",
	"devices",
	"users",
}

// ReplaceAll wipes every mirrored table and reloads it from the snapshot.
// Anything that only existed locally is gone afterwards, so the returned
// per-table row counts report what got discarded.
func (s *GormMirrorStor) ReplaceAll(snapshot *Snapshot) (map[string]int64, error) {
	var discarded map[string]int64

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		discarded = make(map[string]int64)

		for _, table := range clearOrder {
			var count int64
			if err := tx.Table(table).Count(&count).Error; err != nil {
				return err
			}
			discarded[table] = count

			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return err
			}
		}

		// Inserts go parent-to-child.
		if len(snapshot.Users) > 0 {
			if err := tx.Create(&snapshot.Users).Error; err != nil {
				return err
			}
		}

		if len(snapshot.Devices) > 0 {
			if err := tx.Create(&snapshot.Devices).Error; err != nil {
				return err
			}
		}

		if len(snapshot.Measurements) > 0 {
			if err := tx.Create(&snapshot.Measurements).Error; err != nil {
				return err
			}
		}

		if len(snapshot.ColeCole) > 0 {
			if err := tx.Create(&snapshot.ColeCole).Error; err != nil {
				return err
			}
		}

		if len(snapshot.StandardPlot) > 0 {
			if err := tx.Create(&snapshot.StandardPlot).Error; err != nil {
				return err
			}
		}

		if len(snapshot.Nanothickness) > 0 {
			if err := tx.Create(&snapshot.Nanothickness).Error; err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return discarded, nil
}
