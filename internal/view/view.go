package view

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Response is the envelope every API endpoint answers with.
type Response[T any] struct {
	Data    T            `json:"data"`
	Message string       `json:"message,omitempty"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// MessageResponse is used for swagger docs of endpoints returning only a message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is used for swagger docs of failed requests.
type ErrorResponse struct {
	Message string       `json:"message"`
	Error   string       `json:"error"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// CreateResponse builds the envelope. When err carries validation errors, req
// is used to report the failing fields by their JSON names.
func CreateResponse[T any](data T, err error, req any, message string) Response[T] {
	resp := Response[T]{
		Data:    data,
		Message: message,
	}
	if err == nil {
		return resp
	}

	resp.Error = err.Error()

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp.Error = "validation failed"
		for _, fe := range verrs {
			resp.Errors = append(resp.Errors, FieldError{
				Field:   jsonFieldName(req, fe),
				Message: fieldMessage(fe),
			})
		}
	}

	return resp
}

func jsonFieldName(req any, fe validator.FieldError) string {
	if req == nil {
		return fe.Field()
	}

	t := reflect.TypeOf(req)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fe.Field()
	}

	f, ok := t.FieldByName(fe.StructField())
	if !ok {
		return fe.Field()
	}

	name := strings.Split(f.Tag.Get("json"), ",")[0]
	if name == "" || name == "-" {
		return fe.Field()
	}

	return name
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "nefield":
		return "must differ from " + fe.Param()
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "upi_id":
		return "must be a valid UPI id"
	case "ifsc":
		return "must be a valid IFSC code"
	case "credit_card":
		return "must be a valid card number"
	case "decimal_gt0":
		return "must be a positive decimal"
	default:
		return "failed on " + fe.Tag()
	}
}
