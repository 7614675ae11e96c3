package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AdmLevel is an administrative tier ("0" country, "1" state, "2" locality).
type AdmLevel struct {
	ID   snowflake.ID `gorm:"primaryKey" json:"id"`
	Code string       `gorm:"size:10;uniqueIndex;not null" json:"code"`
	Name string       `gorm:"not null" json:"name"`
}

func (AdmLevel) TableName() string { return "adm_levels" }

// Location is a node in the administrative-region tree. GeoID encodes the
// path, e.g. SD, SD_001, SD_001_002.
type Location struct {
	ID         snowflake.ID  `gorm:"primaryKey" json:"id"`
	ParentID   *snowflake.ID `gorm:"index" json:"parent_id,omitempty"`
	Parent     *Location     `gorm:"foreignKey:ParentID" json:"-"`
	AdmLevelID snowflake.ID  `gorm:"not null;index" json:"adm_level_id"`
	AdmLevel   AdmLevel      `gorm:"foreignKey:AdmLevelID" json:"adm_level"`
	GeoID      string        `gorm:"size:50;uniqueIndex;not null" json:"geo_id"`
	Name       string        `gorm:"not null" json:"name"`
	CreatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Location) TableName() string { return "locations" }
