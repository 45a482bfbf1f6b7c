package entity

import (
	"reflect"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

// line tax carries price scale plus rate scale; columns must store it unrounded
func TestMoneyColumnsKeepFullScale(t *testing.T) {
	decimalType := reflect.TypeOf(decimal.Decimal{})

	for _, model := range []interface{}{&Product{}, &Bill{}, &BillLineItem{}} {
		s, err := schema.Parse(model, &sync.Map{}, schema.NamingStrategy{})
		require.NoError(t, err)

		var checked int
		for _, f := range s.Fields {
			if f.FieldType != decimalType {
				continue
			}
			checked++
			assert.Equal(t, schema.DataType("numeric"), f.DataType, "%s.%s", s.Name, f.Name)
		}
		assert.NotZero(t, checked, s.Name)
	}
}
