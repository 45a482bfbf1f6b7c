package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// BillStatus represents the status of a bill
type BillStatus int

const (
	BillStatusCompleted BillStatus = 0
	// BillStatusPending only appears on records written by older installs.
	BillStatusPending BillStatus = 1
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusCompleted:
		return "completed"
	case BillStatusPending:
		return "pending"
	}
	return fmt.Sprintf("BillStatus(%d)", int(s))
}

func (s BillStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *BillStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = BillStatus(i)
		return nil
	}
	switch str {
	case "completed", "":
		*s = BillStatusCompleted
	case "pending":
		*s = BillStatusPending
	default:
		return fmt.Errorf("unknown bill status %q", str)
	}
	return nil
}

func (s BillStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *BillStatus) Scan(value interface{}) error {
	if value == nil {
		*s = BillStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = BillStatus(v)
	case int:
		*s = BillStatus(v)
	}
	return nil
}
