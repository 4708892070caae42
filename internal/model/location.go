package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Weekdays enumerates the keys the hours map must carry, in display order.
var Weekdays = []string{
	"monday", "tuesday", "wednesday", "thursday",
	"friday", "saturday", "sunday",
}

// DayHours is an opening interval for one weekday. Open and Close are
// opaque local-format strings; nothing here checks open < close.
type DayHours struct {
	Open  string `json:"open"`
	Close string `json:"close"`
}

// BusinessHours maps weekday name to its opening interval. Stored as a
// single jsonb column so a settings update always writes all seven days.
type BusinessHours map[string]DayHours

func (h BusinessHours) Value() (driver.Value, error) {
	return json.Marshal(h)
}

func (h *BusinessHours) Scan(src interface{}) error {
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, h)
	case string:
		return json.Unmarshal([]byte(v), h)
	default:
		return fmt.Errorf("unsupported type for BusinessHours: %T", src)
	}
}

// LocationSettings is the singleton record behind the contact section,
// the admin settings editor and the map embed.
type LocationSettings struct {
	ID        uuid.UUID     `db:"id" json:"id"`
	Address   string        `db:"address" json:"address"`
	City      string        `db:"city" json:"city"`
	State     string        `db:"state" json:"state"`
	Zip       string        `db:"zip" json:"zip"`
	Phone     string        `db:"phone" json:"phone"`
	Email     string        `db:"email" json:"email"`
	Hours     BusinessHours `db:"hours" json:"hours"`
	MapURL    string        `db:"map_url" json:"map_url"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// PublicLocation is the subset the marketing page needs for the embed.
type PublicLocation struct {
	ID     uuid.UUID `db:"id" json:"id"`
	MapURL string    `db:"map_url" json:"map_url"`
}

type UpdateLocationRequest struct {
	Address string        `json:"address" binding:"required"`
	City    string        `json:"city" binding:"required"`
	State   string        `json:"state" binding:"required"`
	Zip     string        `json:"zip" binding:"required"`
	Phone   string        `json:"phone" binding:"required"`
	Email   string        `json:"email" binding:"required,email"`
	Hours   BusinessHours `json:"hours" binding:"required"`
	MapURL  string        `json:"map_url" binding:"required"`
}
