package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/ds124wfegd/mmk_universe/internal/entity"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators adds the custom tags used by request forms to gin's
// validator and reports field names as they appear on the wire.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("txnid", func(fl validator.FieldLevel) bool {
			return entity.ValidTransactionID(fl.Field().String())
		})
		v.RegisterTagNameFunc(wireName)
	})
}

func wireName(f reflect.StructField) string {
	for _, tag := range []string{"form", "json"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// validationMessage turns a binding error into one readable sentence.
func validationMessage(err error) string {
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) || len(vErrors) == 0 {
		return "Invalid request body"
	}

	ve := vErrors[0]
	field := ve.Field()
	switch ve.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "txnid":
		return "Transaction ID must be exactly 12 uppercase letters or numbers"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, ve.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, ve.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, ve.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, ve.Param())
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
