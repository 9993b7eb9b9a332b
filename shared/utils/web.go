package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	internal_errors "github.com/itchan-dev/msgboard/shared/errors"
	"github.com/itchan-dev/msgboard/shared/logger"
)

const maxBodySize = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report json names, they are what the client sent
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// WriteErrorAndStatusCode renders err as {"error": "..."}. Errors without a
// status are logged and hidden behind a generic 500.
func WriteErrorAndStatusCode(w http.ResponseWriter, err error) {
	var e *internal_errors.ErrorWithStatusCode
	if errors.As(err, &e) {
		WriteJSONError(w, e.Message, e.StatusCode)
		return
	}
	logger.Log.Error("internal error", "error", err)
	WriteJSONError(w, "internal server error", http.StatusInternalServerError)
}

func WriteJSONError(w http.ResponseWriter, msg string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

// WriteText writes a fixed plain-text body with status 200.
func WriteText(w http.ResponseWriter, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	io.WriteString(w, text)
}

// DecodeValidate fills body from a JSON or url-encoded form request and runs
// struct validation on it.
func DecodeValidate(r *http.Request, body any) error {
	if err := Decode(r, body); err != nil {
		return err
	}
	return Validate(body)
}

func Decode(r *http.Request, body any) error {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		return decodeForm(r, body)
	}

	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(body); err != nil {
		if errors.Is(err, io.EOF) {
			// empty body, leave required-field errors to validation
			return nil
		}
		logger.Log.Debug("invalid json body", "error", err)
		return internal_errors.BadRequest("Body is invalid json")
	}
	return nil
}

// decodeForm maps the first value of every form field onto body's json names.
// The body is parsed directly since http.Request.ParseForm skips DELETE bodies.
func decodeForm(r *http.Request, body any) error {
	raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("failed to read body: %w", err)
	}
	values, err := url.ParseQuery(string(raw))
	if err != nil {
		logger.Log.Debug("invalid form body", "error", err)
		return internal_errors.BadRequest("Body is invalid form")
	}
	fields := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			fields[k] = v[0]
		}
	}
	encoded, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to re-encode form: %w", err)
	}
	if err := json.Unmarshal(encoded, body); err != nil {
		return internal_errors.BadRequest("Body is invalid form")
	}
	return nil
}

func Validate(body any) error {
	err := validate.Struct(body)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}
	missing := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		missing = append(missing, fe.Field())
	}
	return internal_errors.BadRequest("missing required fields: " + strings.Join(missing, ", "))
}
