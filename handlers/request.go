package handlers

import (
	"ecommerce-backend/apperr"
	"encoding/json"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"reflect"
	"strconv"
	"strings"
)

func init() {
	// Report json field names in validation errors.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(field reflect.StructField) string {
			name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	}
}

// nullableID is an optional id field that tells an absent key apart from an explicit null.
type nullableID struct {
	Set   bool
	Value *uint
}

func (n *nullableID) UnmarshalJSON(data []byte) error {
	n.Set = true
	if string(data) == "null" {
		n.Value = nil
		return nil
	}

	var id uint
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	n.Value = &id
	return nil
}

// parseID reads the :id path parameter.
func parseID(c *gin.Context) (uint, error) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, apperr.Invalid("invalid id %q", raw)
	}
	return uint(id), nil
}

// bindJSON decodes the body into req and turns failures into invalid errors.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		fe := validationErrs[0]
		switch fe.Tag() {
		case "required":
			return apperr.Invalid("%s is required", fe.Field())
		case "min":
			return apperr.Invalid("%s must be at least %s", fe.Field(), fe.Param())
		default:
			return apperr.Invalid("%s failed the %s check", fe.Field(), fe.Tag())
		}
	}
	return apperr.Invalid("malformed request body: %v", err)
}
