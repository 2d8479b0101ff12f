package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/go-viper/mapstructure/v2"
	"github.com/phrazzld/taskr-api/internal/api/shared"
)

// Target names the part of the request a schema applies to.
type Target string

// Request parts the validation gate can check.
const (
	TargetBody  Target = "body"
	TargetQuery Target = "query"
	TargetPath  Target = "path"
)

// Response messages of the validation gate.
const (
	NoDataMessage        = "No data found"
	InvalidFormatMessage = "Invalid request format"
	BodyTooLargeMessage  = "Request body too large"
)

// tag returns the struct tag naming fields for the target.
func (t Target) tag() string {
	if t == TargetBody {
		return "json"
	}
	return string(t)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "path"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
	return v
}

type payloadKey[T any] struct{}

// ValidatedPayload returns the sanitized value stored by Validate[T].
// The second value is false when no Validate[T] ran for the request.
func ValidatedPayload[T any](r *http.Request) (T, bool) {
	v, ok := r.Context().Value(payloadKey[T]{}).(T)
	return v, ok
}

func withPayload[T any](ctx context.Context, v T) context.Context {
	return context.WithValue(ctx, payloadKey[T]{}, v)
}

// Validate returns a middleware that checks one part of the request against
// the schema T, described with validator struct tags.
//
// An empty target is rejected with 400 NoDataMessage. Every violation is
// reported in one 400 response. Keys unknown to T are dropped. On success the
// target is replaced with the sanitized value, which handlers read with
// ValidatedPayload[T].
func Validate[T any](target Target) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var (
				value  T
				status int
				msg    string
				detail []string
			)

			switch target {
			case TargetBody:
				value, status, msg, detail = validateBody[T](w, r)
			case TargetQuery:
				value, status, msg, detail = validateQuery[T](r)
			case TargetPath:
				value, status, msg, detail = validatePath[T](r)
			default:
				shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
					"An unexpected error occurred", fmt.Errorf("unknown validation target %q", target))
				return
			}

			if status != 0 {
				shared.RespondWithError(w, r, status, msg, shared.WithDetails(detail))
				return
			}

			next.ServeHTTP(w, r.WithContext(withPayload(r.Context(), value)))
		})
	}
}

func validateBody[T any](w http.ResponseWriter, r *http.Request) (T, int, string, []string) {
	var value T

	if r.Body == nil {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, shared.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return value, http.StatusRequestEntityTooLarge, BodyTooLargeMessage, nil
		}
		return value, http.StatusBadRequest, InvalidFormatMessage, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}

	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return value, http.StatusBadRequest, InvalidFormatMessage, nil
	}
	if len(keys) == 0 {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}

	value, details, err := decodeBody[T](keys)
	if err != nil {
		return value, http.StatusInternalServerError, "An unexpected error occurred", nil
	}
	if len(details) > 0 {
		return value, http.StatusBadRequest, failureMessage(TargetBody), details
	}

	sanitized, err := json.Marshal(value)
	if err != nil {
		return value, http.StatusInternalServerError, "An unexpected error occurred", nil
	}
	r.Body = io.NopCloser(bytes.NewReader(sanitized))
	r.ContentLength = int64(len(sanitized))

	return value, 0, "", nil
}

// decodeBody fills T from the body keys one field at a time. Keys are matched
// to json tag names exactly; anything else is dropped. Every wrong-typed value
// is reported, together with the rule violations of the remaining fields.
func decodeBody[T any](keys map[string]json.RawMessage) (T, []string, error) {
	var value T

	rv := reflect.ValueOf(&value).Elem()
	if rv.Kind() != reflect.Struct {
		return value, nil, fmt.Errorf("body schema %T is not a struct", value)
	}

	var names []string
	typeErrs := map[string]string{}
	for i := range rv.NumField() {
		sf := rv.Type().Field(i)
		name := jsonName(sf)
		if name == "" {
			continue
		}
		names = append(names, name)

		raw, ok := keys[name]
		if !ok {
			continue
		}
		field := reflect.New(sf.Type)
		if err := json.Unmarshal(raw, field.Interface()); err != nil {
			var typeErr *json.UnmarshalTypeError
			if errors.As(err, &typeErr) {
				typeErrs[name] = fmt.Sprintf("%s must be %s", name, article(typeName(sf.Type)))
			} else {
				typeErrs[name] = name + " has an invalid value"
			}
			continue
		}
		rv.Field(i).Set(field.Elem())
	}

	ruleErrs, err := fieldErrors(value)
	if err != nil {
		return value, nil, err
	}

	var details []string
	for _, name := range names {
		if msg, ok := typeErrs[name]; ok {
			details = append(details, msg)
			continue
		}
		details = append(details, ruleErrs[name]...)
	}
	return value, details, nil
}

// jsonName returns the body key of an exported field, or "" when the field
// is not decoded from JSON.
func jsonName(sf reflect.StructField) string {
	if !sf.IsExported() {
		return ""
	}
	name, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return sf.Name
	default:
		return name
	}
}

func validateQuery[T any](r *http.Request) (T, int, string, []string) {
	var value T

	query := r.URL.Query()
	if len(query) == 0 {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}

	input := make(map[string]any, len(query))
	for k, vs := range query {
		if len(vs) == 1 {
			input[k] = vs[0]
		} else {
			input[k] = vs
		}
	}

	value, sanitized, details := decodeValues[T](input, TargetQuery)
	if len(details) > 0 {
		return value, http.StatusBadRequest, failureMessage(TargetQuery), details
	}

	out := url.Values{}
	for k, v := range sanitized {
		out.Set(k, fmt.Sprint(v))
	}
	r.URL.RawQuery = out.Encode()

	return value, 0, "", nil
}

func validatePath[T any](r *http.Request) (T, int, string, []string) {
	var value T

	rctx := chi.RouteContext(r.Context())
	if rctx == nil || len(rctx.URLParams.Keys) == 0 {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}

	input := make(map[string]any, len(rctx.URLParams.Keys))
	for i, k := range rctx.URLParams.Keys {
		if k == "*" {
			continue
		}
		input[k] = rctx.URLParams.Values[i]
	}
	if len(input) == 0 {
		return value, http.StatusBadRequest, NoDataMessage, nil
	}

	value, sanitized, details := decodeValues[T](input, TargetPath)
	if len(details) > 0 {
		return value, http.StatusBadRequest, failureMessage(TargetPath), details
	}

	for i, k := range rctx.URLParams.Keys {
		if v, ok := sanitized[k]; ok {
			rctx.URLParams.Values[i] = fmt.Sprint(v)
		}
	}

	return value, 0, "", nil
}

// decodeValues decodes string input into T field by field so that every
// malformed value is reported, then runs the struct validation. The returned
// map holds the sanitized values of the keys T knows about.
func decodeValues[T any](input map[string]any, target Target) (T, map[string]any, []string) {
	var value T
	var details []string

	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		var single T
		if err := weakDecode(map[string]any{k: input[k]}, &single, target); err != nil {
			details = append(details, fmt.Sprintf("%s has an invalid value", k))
		}
	}
	if len(details) > 0 {
		return value, nil, details
	}

	if err := weakDecode(input, &value, target); err != nil {
		return value, nil, []string{InvalidFormatMessage}
	}
	if details := structErrors(value); len(details) > 0 {
		return value, nil, details
	}

	known := map[string]any{}
	if err := weakDecode(value, &known, target); err != nil {
		return value, nil, []string{InvalidFormatMessage}
	}
	sanitized := make(map[string]any, len(input))
	for k := range input {
		if v, ok := known[k]; ok {
			sanitized[k] = v
		}
	}

	return value, sanitized, nil
}

func weakDecode(input, output any, target Target) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           output,
		TagName:          target.tag(),
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// structErrors runs the validator and returns one message per violation.
func structErrors(value any) []string {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{InvalidFormatMessage}
	}

	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, fieldErrorMessage(fe))
	}
	return details
}

// fieldErrors groups the validator messages by field name.
func fieldErrors(value any) (map[string][]string, error) {
	err := validate.Struct(value)
	if err == nil {
		return nil, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, err
	}

	out := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = append(out[fe.Field()], fieldErrorMessage(fe))
	}
	return out, nil
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	isString := fe.Kind() == reflect.String

	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.Join(strings.Fields(fe.Param()), ", "))
	case "uuid", "uuid4":
		return field + " must be a valid UUID"
	case "boolean":
		return field + " must be true or false"
	case "alphanum":
		return field + " must contain only letters and digits"
	case "excludesall":
		return field + " contains invalid characters"
	default:
		return fmt.Sprintf("%s failed the %s check", field, fe.Tag())
	}
}

func failureMessage(target Target) string {
	return "Validation failed in " + string(target)
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "valid value"
	}
	switch t.Kind() {
	case reflect.Bool:
		return "boolean"
	case reflect.String:
		return "string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Pointer:
		return typeName(t.Elem())
	default:
		return "valid value"
	}
}

func article(noun string) string {
	if strings.ContainsRune("aeiou", rune(noun[0])) {
		return "an " + noun
	}
	return "a " + noun
}
