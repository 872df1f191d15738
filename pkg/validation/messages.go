package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// UseJSONFieldNames makes v report field errors under their JSON names.
func UseJSONFieldNames(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			name = fld.Tag.Get("form")
		}
		name = strings.SplitN(name, ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// RegisterBindingFieldNames applies UseJSONFieldNames to gin's binding
// validator.
func RegisterBindingFieldNames() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		UseJSONFieldNames(v)
	}
}

// Messages turns a binding or validation error into client facing messages.
func Messages(err error) []string {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		messages := make([]string, 0, len(verrs))
		for _, e := range verrs {
			messages = append(messages, fieldMessage(e))
		}
		return messages
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return []string{fmt.Sprintf("%s must be of type %s", typeErr.Field, typeErr.Type)}
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return []string{"request body is not valid JSON"}
	}

	return []string{err.Error()}
}

func fieldMessage(e validator.FieldError) string {
	if fieldMessages := CustomMessage(e.Field()); fieldMessages != nil {
		if msg, ok := fieldMessages[e.Tag()]; ok {
			return msg
		}
	}
	return DefaultMessage(e.Field(), e.Tag(), e.Param())
}
