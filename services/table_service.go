package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/clubsantiago/sistema-billar/events"
	"github.com/clubsantiago/sistema-billar/models"
	"github.com/clubsantiago/sistema-billar/utils"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// ListParams selects a window of tables. A zero Limit means DefaultLimit;
// an empty Status means every status.
type ListParams struct {
	Skip   int
	Limit  int
	Status string
}

func (p ListParams) normalize() (ListParams, error) {
	if p.Skip < 0 || p.Limit < 0 {
		return p, fmt.Errorf("%w: skip and limit must not be negative", ErrInvalidPaging)
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Status != "" && !models.ValidTableStatus(p.Status) {
		return p, ErrInvalidStatus
	}
	return p, nil
}

// TableService is the data-access layer for venue tables. Every mutation
// is followed by a best-effort event on the configured publisher.
type TableService struct {
	db     *gorm.DB
	events events.Publisher
}

func NewTableService(db *gorm.DB, pub events.Publisher) *TableService {
	if pub == nil {
		pub = events.Discard{}
	}
	return &TableService{db: db, events: pub}
}

// Create inserts a new AVAILABLE table without a session.
func (s *TableService) Create(ctx context.Context, in models.TableCreate) (models.Table, error) {
	if strings.TrimSpace(in.Name) == "" {
		return models.Table{}, ErrInvalidName
	}
	if !models.ValidTableType(in.Type) {
		return models.Table{}, ErrInvalidType
	}

	table := models.Table{
		Name:   in.Name,
		Type:   in.Type,
		Status: models.TableStatusAvailable,
	}
	if err := s.db.WithContext(ctx).Create(&table).Error; err != nil {
		if isDuplicateKey(err) {
			return models.Table{}, ErrDuplicateName
		}
		return models.Table{}, fmt.Errorf("create table: %w", err)
	}

	utils.InfoLogger.Printf("New table created: %s (id=%d, type=%s)", table.Name, table.ID, table.Type)
	s.publish(ctx, events.EventTableCreate, "table", table)
	return table, nil
}

// List returns the tables in id order, windowed by p.
func (s *TableService) List(ctx context.Context, p ListParams) ([]models.Table, error) {
	p, err := p.normalize()
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).Model(&models.Table{})
	if p.Status != "" {
		q = q.Where("status = ?", p.Status)
	}

	tables := make([]models.Table, 0)
	if err := q.Order("id ASC").Offset(p.Skip).Limit(p.Limit).Find(&tables).Error; err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return tables, nil
}

func (s *TableService) GetByID(ctx context.Context, id uint) (models.Table, error) {
	var table models.Table
	if err := s.db.WithContext(ctx).First(&table, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Table{}, ErrTableNotFound
		}
		return models.Table{}, fmt.Errorf("get table %d: %w", id, err)
	}
	return table, nil
}

// Update applies the fields present in u. The session id is stored as
// given; it is never derived from or checked against the status.
func (s *TableService) Update(ctx context.Context, id uint, u models.TableUpdate) (models.Table, error) {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return models.Table{}, ErrInvalidName
	}
	if u.Type != nil && !models.ValidTableType(*u.Type) {
		return models.Table{}, ErrInvalidType
	}
	if u.Status != nil && !models.ValidTableStatus(*u.Status) {
		return models.Table{}, ErrInvalidStatus
	}

	table, err := s.GetByID(ctx, id)
	if err != nil || u.Empty() {
		return table, err
	}

	updates := map[string]interface{}{}
	if u.Name != nil {
		updates["name"] = *u.Name
	}
	if u.Type != nil {
		updates["type"] = *u.Type
	}
	if u.Status != nil {
		updates["status"] = *u.Status
	}
	switch {
	case u.CurrentSessionID != nil:
		updates["current_session_id"] = *u.CurrentSessionID
	case u.ClearSession:
		updates["current_session_id"] = nil
	}

	if err := s.db.WithContext(ctx).Model(&models.Table{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		if isDuplicateKey(err) {
			return models.Table{}, ErrDuplicateName
		}
		return models.Table{}, fmt.Errorf("update table %d: %w", id, err)
	}

	table, err = s.GetByID(ctx, id)
	if err != nil {
		return models.Table{}, err
	}

	utils.InfoLogger.Printf("Table %d updated (status=%s)", table.ID, table.Status)
	s.publish(ctx, events.EventTableUpdate, "table", table)
	return table, nil
}

// Delete removes a table. Occupied tables are refused.
func (s *TableService) Delete(ctx context.Context, id uint) error {
	table, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if table.Status == models.TableStatusOccupied {
		return ErrTableOccupied
	}

	res := s.db.WithContext(ctx).
		Where("status <> ?", models.TableStatusOccupied).
		Delete(&models.Table{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete table %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		// Gone, or occupied since the read above.
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrTableOccupied
	}

	utils.InfoLogger.Printf("Table %d deleted", id)
	s.publish(ctx, events.EventTableDelete, "table_id", id)
	return nil
}

// Stats counts tables per status.
func (s *TableService) Stats(ctx context.Context) (models.TableStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := s.db.WithContext(ctx).Model(&models.Table{}).
		Select("status, count(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return models.TableStats{}, fmt.Errorf("table stats: %w", err)
	}

	var stats models.TableStats
	for _, r := range rows {
		switch r.Status {
		case models.TableStatusAvailable:
			stats.Available = r.Count
		case models.TableStatusOccupied:
			stats.Occupied = r.Count
		}
		stats.Total += r.Count
	}
	return stats, nil
}

// publish sends the event with fresh stats, the payload dashboards use to
// refresh their counters. A stats failure only drops the counters.
func (s *TableService) publish(ctx context.Context, event, key string, value interface{}) {
	data := map[string]interface{}{key: value}
	if stats, err := s.Stats(ctx); err == nil {
		data["stats"] = stats
	} else {
		utils.ErrorLogger.WithError(err).Warn("event stats unavailable")
	}
	s.events.Publish(ctx, events.Message{Event: event, Data: data})
}
