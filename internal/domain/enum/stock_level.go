package enum

import (
	"encoding/json"
	"fmt"
)

// StockLevel classifies how urgently a product needs restocking
type StockLevel int

const (
	StockLevelNormal   StockLevel = 0
	StockLevelLow      StockLevel = 1
	StockLevelCritical StockLevel = 2
)

func (l StockLevel) String() string {
	switch l {
	case StockLevelNormal:
		return "normal"
	case StockLevelLow:
		return "low"
	case StockLevelCritical:
		return "critical"
	}
	return fmt.Sprintf("StockLevel(%d)", int(l))
}

func (l StockLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *StockLevel) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	switch str {
	case "normal":
		*l = StockLevelNormal
	case "low":
		*l = StockLevelLow
	case "critical":
		*l = StockLevelCritical
	default:
		return fmt.Errorf("unknown stock level %q", str)
	}
	return nil
}
