package handler

import (
	"errors"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sangkips/supermarket-api/internal/presentation/http/dto/response"
	"github.com/sangkips/supermarket-api/pkg/apperror"
)

var registerTagNames sync.Once

// UseJSONFieldNames makes binding errors report json field names instead of Go names.
func UseJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// GetOperator returns the authenticated operator, or "" when auth is off
func GetOperator(c *gin.Context) string {
	return c.GetString("operator")
}

// bindJSON binds the body into obj. Tag failures are answered with 422, malformed JSON with 400.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]apperror.FieldError, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, apperror.FieldError{
				Field:   fe.Field(),
				Message: fieldMessage(fe),
			})
		}
		response.ValidationError(c, fields)
		return false
	}

	response.BadRequest(c, "Invalid request body: "+err.Error())
	return false
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

// queryInt reads an integer query parameter, falling back to def when absent.
func queryInt(c *gin.Context, key string, def int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+key+" parameter")
		return 0, false
	}
	return n, true
}
