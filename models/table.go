package models

const (
	TableTypePool  = "POOL"
	TableTypeCards = "CARDS"

	TableStatusAvailable = "AVAILABLE"
	TableStatusOccupied  = "OCCUPIED"
)

// Table is a physical pool or card table in the venue.
type Table struct {
	ID               uint   `gorm:"primaryKey" json:"id"`
	Name             string `gorm:"type:varchar(100);not null;uniqueIndex" json:"name"`
	Type             string `gorm:"type:varchar(20);not null" json:"type"`
	Status           string `gorm:"type:varchar(20);not null;default:'AVAILABLE'" json:"status"`
	CurrentSessionID *int64 `json:"current_session_id"`
}

func (Table) TableName() string {
	return "tables"
}

// TableCreate is the payload accepted by POST /tables/.
type TableCreate struct {
	Name string `json:"name" binding:"required"`
	Type string `json:"type" binding:"required,oneof=POOL CARDS"`
}

// TableUpdate is a partial update. A nil field is left untouched.
// ClearSession is set when the payload carried an explicit
// "current_session_id": null.
type TableUpdate struct {
	Name             *string `json:"name" binding:"omitempty,min=1"`
	Type             *string `json:"type" binding:"omitempty,oneof=POOL CARDS"`
	Status           *string `json:"status" binding:"omitempty,oneof=AVAILABLE OCCUPIED"`
	CurrentSessionID *int64  `json:"current_session_id"`
	ClearSession     bool    `json:"-"`
}

// Empty reports whether the update carries no change at all.
func (u TableUpdate) Empty() bool {
	return u.Name == nil && u.Type == nil && u.Status == nil &&
		u.CurrentSessionID == nil && !u.ClearSession
}

// TableStats holds table counts per status.
type TableStats struct {
	Available int64 `json:"available"`
	Occupied  int64 `json:"occupied"`
	Total     int64 `json:"total"`
}

func ValidTableType(t string) bool {
	return t == TableTypePool || t == TableTypeCards
}

func ValidTableStatus(s string) bool {
	return s == TableStatusAvailable || s == TableStatusOccupied
}
