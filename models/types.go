package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// MetaMap is a custom type for opaque structured attachment metadata stored as JSON
type MetaMap map[string]interface{}

// Value implements driver.Valuer interface for database storage
func (m MetaMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner interface for database retrieval
func (m *MetaMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into MetaMap", value)
	}
}

// GormDataType returns the data type for GORM
func (MetaMap) GormDataType() string {
	return "json"
}
