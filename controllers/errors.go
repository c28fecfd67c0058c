package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/clubsantiago/sistema-billar/services"
	"github.com/clubsantiago/sistema-billar/utils"
)

var (
	ErrInvalidID     = errors.New("id must be a positive integer")
	ErrInvalidQuery  = errors.New("skip and limit must be integers")
	ErrInternalError = errors.New("internal server error")
)

// respondServiceError maps service errors onto status codes. Anything
// unrecognised is logged and hidden behind a 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrTableNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	case errors.Is(err, services.ErrDuplicateName):
		utils.RespondError(c, http.StatusConflict, err)
	case errors.Is(err, services.ErrTableOccupied):
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.IsValidationError(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	default:
		_ = c.Error(err)
		utils.ErrorLogger.WithError(err).WithField("path", c.FullPath()).Error("unhandled service error")
		utils.RespondError(c, http.StatusInternalServerError, ErrInternalError)
	}
}

// bindError turns a JSON decoding or validation failure into a readable
// 400 message.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		return errors.New(strings.Join(msgs, "; "))
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return errors.New("request body must be a JSON object")
		}
		return fmt.Errorf("%s must be a %s", typeErr.Field, typeErr.Type.String())
	}
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) || errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errors.New("request body must be valid JSON")
	}
	return err
}

func fieldMessage(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	if field == "currentsessionid" {
		field = "current_session_id"
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		return field + " must not be empty"
	}
	return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
}
