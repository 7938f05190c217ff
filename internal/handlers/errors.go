package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	dom "Tracker/internal/domain"
	"Tracker/internal/dto"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const (
	msgInternal       = "Internal server error"
	msgInvalidJSON    = "Invalid JSON body"
	msgCompletedQuery = "completed must be 'true' or 'false'"
)

func abortWithErrors(c *gin.Context, status int, msgs ...string) {
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Errors: msgs})
}

// bindingMessages turns a gin binding error into user-facing messages.
// It only covers request shape; business rules are checked by the service.
func bindingMessages(err error) []string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return msgs
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []string{fmt.Sprintf("%s must be a %s", typeErr.Field, jsonTypeName(typeErr.Type))}
	}
	return []string{msgInvalidJSON}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Title":
		if fe.Tag() == "required" {
			return dom.MsgTitleEmpty
		}
	case "Completed":
		if fe.Tag() == "oneof" {
			return msgCompletedQuery
		}
	}
	return fmt.Sprintf("%s is invalid", strings.ToLower(fe.Field()))
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	default:
		return t.String()
	}
}
