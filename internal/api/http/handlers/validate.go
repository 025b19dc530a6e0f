package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/dispatch-service/pkg/util"
)

var validate = validator.New()

// validateStruct runs tag validation on a request payload and reports the
// first failing field so operators learn exactly which entry to fix.
func validateStruct(payload any) error {
	if err := validate.Struct(payload); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			first := fieldErrs[0]
			field := jsonFieldName(payload, first.StructField())
			return apperrors.NewValidationError(
				fmt.Sprintf("%s is missing or invalid", field),
				map[string]any{"field": field, "rule": first.Tag()},
			)
		}
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return nil
}

// jsonFieldName resolves the wire name for a struct field via its json tag.
func jsonFieldName(payload any, structField string) string {
	t := reflect.TypeOf(payload)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return structField
	}
	if f, ok := t.FieldByName(structField); ok {
		tag := f.Tag.Get("json")
		if tag != "" && tag != "-" {
			return strings.Split(tag, ",")[0]
		}
	}
	return structField
}
