package database

import (
	"context"
	"fmt"

	"github.com/diwise/iot-sensor-monitor/pkg/types"
	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store keeps incidents and comments in a relational database through gorm.
type Store struct {
	db *gorm.DB
}

func New(connect ConnectorFunc) (*Store, error) {
	impl, log, err := connect()
	if err != nil {
		return nil, err
	}

	err = impl.AutoMigrate(&Incident{}, &Comment{})
	if err != nil {
		return nil, err
	}

	log.Debug().Msg("database schema migrated")

	return &Store{
		db: impl,
	}, nil
}

func (s *Store) List(ctx context.Context) ([]types.Incident, error) {
	records := []Incident{}

	err := s.db.WithContext(ctx).Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return lo.Map(records, func(r Incident, _ int) types.Incident {
		return r.toIncident()
	}), nil
}

// Save replaces the stored collection with incidents. Rows whose id is not
// part of the collection are removed.
func (s *Store) Save(ctx context.Context, incidents []types.Incident) error {
	records := lo.Map(incidents, func(i types.Incident, _ int) Incident {
		return fromIncident(i)
	})

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(records) == 0 {
			return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&Incident{}).Error
		}

		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&records).Error
		if err != nil {
			return fmt.Errorf("failed to upsert incidents: %w", err)
		}

		ids := lo.Map(records, func(r Incident, _ int) int { return r.ID })

		return tx.Where("id NOT IN ?", ids).Delete(&Incident{}).Error
	})
}

func (s *Store) ListByIncident(ctx context.Context, incidentID int) ([]types.Comment, error) {
	records := []Comment{}

	err := s.db.WithContext(ctx).Where(&Comment{AccidentID: incidentID}).Order("id").Find(&records).Error
	if err != nil {
		return nil, err
	}

	return lo.Map(records, func(c Comment, _ int) types.Comment {
		return c.toComment()
	}), nil
}

func (s *Store) Append(ctx context.Context, comment types.Comment) (types.Comment, error) {
	record := Comment{
		AccidentID: comment.AccidentID,
		Content:    comment.Content,
		UserName:   comment.UserName,
		Timestamp:  comment.Timestamp.UTC(),
	}

	err := s.db.WithContext(ctx).Create(&record).Error
	if err != nil {
		return types.Comment{}, err
	}

	return record.toComment(), nil
}
