package common

import (
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"
)

// MaxMultipartMemory is the part of a multipart body kept in memory; the rest spills to disk.
const MaxMultipartMemory = 32 << 20

var (
	formDecoder = newFormDecoder()
	validate    = validator.New(validator.WithRequiredStructEnabled())
)

func newFormDecoder() *schema.Decoder {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder
}

func ParseID(value string) (uint, error) {
	value = strings.TrimSpace(value)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil || parsed == 0 {
		return 0, fmt.Errorf("invalid id %q", value)
	}
	return uint(parsed), nil
}

func URLParamID(r *http.Request, name string) (uint, error) {
	return ParseID(chi.URLParam(r, name))
}

// ParseOptionalID returns nil for an empty value.
func ParseOptionalID(value string) (*uint, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	id, err := ParseID(value)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// ParseIDs accepts repeated values as well as comma-separated lists.
func ParseIDs(values []string) ([]uint, error) {
	result := make([]uint, 0, len(values))
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if strings.TrimSpace(part) == "" {
				continue
			}
			id, err := ParseID(part)
			if err != nil {
				return nil, err
			}
			result = append(result, id)
		}
	}
	return result, nil
}

// DecodeForm fills dst from form or query values using `schema` tags.
func DecodeForm(dst interface{}, values map[string][]string) error {
	return formDecoder.Decode(dst, values)
}

// Validate runs `validate` tags on dst.
func Validate(dst interface{}) error {
	return validate.Struct(dst)
}

// ValidationMessage turns the first validator failure into a short client message.
func ValidationMessage(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "invalid request"
	}
	first := errs[0]
	field := strings.ToLower(first.Field())
	switch first.Tag() {
	case "required":
		return field + " is required"
	case "max", "lte":
		if first.Kind() == reflect.String {
			return field + " is too long"
		}
		return field + " is too large"
	case "min", "gte":
		return field + " is too small"
	case "email":
		return field + " must be an email address"
	default:
		return field + " is invalid"
	}
}

// IsJSON reports whether the request body is JSON rather than a form.
func IsJSON(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "application/json")
}
