package stor

import (
	"github.com/hashicorp/go-uuid"
	"github.com/pkg/errors"
	"github.com/thermal-commons/thermald/pkg/tldb/tlmodel"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormRemoteStor talks to the shared central database.
type GormRemoteStor struct {
	db *gorm.DB
}

func NewGormRemoteStor(db *gorm.DB) *GormRemoteStor {
	return &GormRemoteStor{db: db}
}

// FetchSnapshot reads every mirrored table from the central database. The
// nanothickness table is only included when asked for; the default mirror
// refresh leaves it out.
func (s *GormRemoteStor) FetchSnapshot(includeNanothickness bool) (*Snapshot, error) {
	snapshot := &Snapshot{}

	if err := s.fetchUsers(snapshot); err != nil {
		return nil, err
	}

	if err := s.fetchDevices(snapshot); err != nil {
		return nil, err
	}

	if err := s.fetchMeasurements(snapshot); err != nil {
		return nil, err
	}

	if err := s.fetchColeCole(snapshot); err != nil {
		return nil, err
	}

	if err := s.fetchStandardPlot(snapshot); err != nil {
		return nil, err
	}

	if includeNanothickness {
		if err := s.fetchNanothickness(snapshot); err != nil {
			return nil, err
		}
	}

	return snapshot, nil
}

func (s *GormRemoteStor) fetchUsers(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`select id, username, role, active, hashed_password, created_at from users`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch users")
	}
	defer rows.Close()

	for rows.Next() {
		var id, username, role, active, hashedPassword, createdAt interface{}
		if err := rows.Scan(&id, &username, &role, &active, &hashedPassword, &createdAt); err != nil {
			return errors.Wrap(err, "scan users")
		}
		snapshot.Users = append(snapshot.Users, tlmodel.User{
			ID:             asString(id),
			Username:       asString(username),
			Role:           asString(role),
			Active:         asInt(active),
			HashedPassword: asString(hashedPassword),
			CreatedAt:      asString(createdAt),
		})
	}

	return rows.Err()
}

func (s *GormRemoteStor) fetchDevices(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`select id, name, structure_json, experiment_by, created_by, created_at from devices`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch devices")
	}
	defer rows.Close()

	for rows.Next() {
		var id, name, structureJSON, experimentBy, createdBy, createdAt interface{}
		if err := rows.Scan(&id, &name, &structureJSON, &experimentBy, &createdBy, &createdAt); err != nil {
			return errors.Wrap(err, "scan devices")
		}
		snapshot.Devices = append(snapshot.Devices, tlmodel.Device{
			ID:            asString(id),
			Name:          asString(name),
			StructureJSON: asString(structureJSON),
			ExperimentBy:  asString(experimentBy),
			CreatedBy:     asString(createdBy),
			CreatedAt:     asString(createdAt),
		})
	}

	return rows.Err()
}

func (s *GormRemoteStor) fetchMeasurements(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`
		select m.id, m.device_id, m.num_order, m.name, m.created_by, m.created_at
		from measurements m
		join devices d on m.device_id = d.id`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch measurements")
	}
	defer rows.Close()

	for rows.Next() {
		var id, deviceID, numOrder, name, createdBy, createdAt interface{}
		if err := rows.Scan(&id, &deviceID, &numOrder, &name, &createdBy, &createdAt); err != nil {
			return errors.Wrap(err, "scan measurements")
		}
		snapshot.Measurements = append(snapshot.Measurements, tlmodel.Measurement{
			ID:        asString(id),
			DeviceID:  asString(deviceID),
			NumOrder:  asIntPtr(numOrder),
			Name:      asString(name),
			CreatedBy: asString(createdBy),
			CreatedAt: asString(createdAt),
		})
	}

	return rows.Err()
}

func (s *GormRemoteStor) fetchColeCole(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`select id, measurement_id, frequency, resistance, reactance, capacitance from cole_cole`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch cole_cole")
	}
	defer rows.Close()

	for rows.Next() {
		var id, measurementID, frequency, resistance, reactance, capacitance interface{}
		if err := rows.Scan(&id, &measurementID, &frequency, &resistance, &reactance, &capacitance); err != nil {
			return errors.Wrap(err, "scan cole_cole")
		}
		snapshot.ColeCole = append(snapshot.ColeCole, tlmodel.ColeCole{
			ID:            asString(id),
			MeasurementID: asString(measurementID),
			Frequency:     asFloat(frequency),
			Resistance:    asFloat(resistance),
			Reactance:     asFloat(reactance),
			Capacitance:   asFloat(capacitance),
		})
	}

	return rows.Err()
}

func (s *GormRemoteStor) fetchStandardPlot(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`select id, measurement_id, time, voltage from standard_plot`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch standard_plot")
	}
	defer rows.Close()

	for rows.Next() {
		var id, measurementID, t, voltage interface{}
		if err := rows.Scan(&id, &measurementID, &t, &voltage); err != nil {
			return errors.Wrap(err, "scan standard_plot")
		}
		snapshot.StandardPlot = append(snapshot.StandardPlot, tlmodel.StandardPlot{
			ID:            asString(id),
			MeasurementID: asString(measurementID),
			Time:          asFloat(t),
			Voltage:       asFloat(voltage),
		})
	}

	return rows.Err()
}

func (s *GormRemoteStor) fetchNanothickness(snapshot *Snapshot) error {
	rows, err := s.db.Raw(`select id, measurement_id, pos1, pos2, pos3, pos4, pos5 from nanothickness`).Rows()
	if err != nil {
		return errors.Wrap(err, "fetch nanothickness")
	}
	defer rows.Close()

	for rows.Next() {
		var id, measurementID, pos1, pos2, pos3, pos4, pos5 interface{}
		if err := rows.Scan(&id, &measurementID, &pos1, &pos2, &pos3, &pos4, &pos5); err != nil {
			return errors.Wrap(err, "scan nanothickness")
		}
		snapshot.Nanothickness = append(snapshot.Nanothickness, tlmodel.Nanothickness{
			ID:            asString(id),
			MeasurementID: asString(measurementID),
			Pos1:          asFloat(pos1),
			Pos2:          asFloat(pos2),
			Pos3:          asFloat(pos3),
			Pos4:          asFloat(pos4),
			Pos5:          asFloat(pos5),
		})
	}

	return rows.Err()
}

// PushMeasurement inserts the measurement into the central database with the
// next free order number for its device. A measurement that is already there
// is left alone and its stored order number is returned, so re-pushing never
// reports an order the remote doesn't hold.
func (s *GormRemoteStor) PushMeasurement(measurement *tlmodel.Measurement) (int, error) {
	var numOrder int

	err := WithTxRetry(s.db, func(tx *gorm.DB) error {
		var existing tlmodel.Measurement
		result := tx.Where("id = ?", measurement.ID).First(&existing)
		if result.Error == nil {
			if existing.NumOrder != nil {
				numOrder = *existing.NumOrder
			}
			return nil
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}

		row := tx.Raw(`select coalesce(max(num_order), 0) + 1 from measurements where device_id = ?`,
			measurement.DeviceID).Row()
		if err := row.Scan(&numOrder); err != nil {
			return errors.Wrap(err, "next num_order")
		}

		pushed := *measurement
		pushed.NumOrder = &numOrder
		pushed.Device = nil

		return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&pushed).Error
	})

	return numOrder, err
}

// PushColeCole inserts the readings with freshly generated ids. Because the
// ids are new every time, pushing the same readings twice duplicates them on
// the central database; the id conflict clause only guards against exact id
// collisions, not content duplication.
func (s *GormRemoteStor) PushColeCole(readings []tlmodel.ColeCole) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].Measurement = nil
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormRemoteStor) PushStandardPlot(readings []tlmodel.StandardPlot) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].Measurement = nil
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *GormRemoteStor) PushNanothickness(readings []tlmodel.Nanothickness) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		for i := range readings {
			id, err := uuid.GenerateUUID()
			if err != nil {
				return err
			}
			readings[i].ID = id
			readings[i].Measurement = nil
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&readings[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SoftDeleteMeasurement propagates a local soft-delete to the central
// database: the measurement row and every reading row under it get
// is_delete set, all in one transaction.
func (s *GormRemoteStor) SoftDeleteMeasurement(measurementID string) error {
	return WithTxRetry(s.db, func(tx *gorm.DB) error {
		if err := tx.Model(&tlmodel.Measurement{}).Where("id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		if err := tx.Model(&tlmodel.ColeCole{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		if err := tx.Model(&tlmodel.StandardPlot{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error; err != nil {
			return err
		}

		return tx.Model(&tlmodel.Nanothickness{}).Where("measurement_id = ?", measurementID).
			Update("is_delete", 1).Error
	})
}
