package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validator  *validator.Validate
	Translator ut.Translator
)

func init() {
	Validator = validator.New(validator.WithRequiredStructEnabled())

	Validator.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]

		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	english := en.New()
	uni := ut.New(english, english)

	var found bool
	Translator, found = uni.GetTranslator("en")

	if !found {
		panic("translator en not found")
	}

	if err := en_translations.RegisterDefaultTranslations(Validator, Translator); err != nil {
		panic(err)
	}

	addCustomTranslations()
}

func addCustomTranslations() {
	Validator.RegisterTranslation("required", Translator, func(ut ut.Translator) error {
		return ut.Add("required", "'{0}' is a required property", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("required", fe.Field())
		return t
	})

	Validator.RegisterTranslation("min", Translator, func(ut ut.Translator) error {
		return ut.Add("min", "'{0}' must not be empty", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("min", fe.Field())
		return t
	})
}

// ValidationError is a payload rejected before any store access.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}

	return e.Field + ": " + e.Message
}

// FormatValidationErrors turns the first struct rule violation into a ValidationError.
func FormatValidationErrors(err error) error {
	validationErrors, ok := err.(validator.ValidationErrors)

	if !ok || len(validationErrors) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	fieldError := validationErrors[0]

	return &ValidationError{
		Field:   fieldError.Field(),
		Message: fieldError.Translate(Translator),
	}
}

// Decode validates a raw JSON body in the given mode and decodes it into T.
// Only keys that exactly match a json tag of T are bound; anything else the
// schema let through is dropped. Numbers are kept as json.Number.
func Decode[T any](body []byte, mode Mode) (T, error) {
	var params T

	payload, err := decodeJSON(body)
	if err != nil {
		return params, &ValidationError{Message: "request body must be a valid JSON object"}
	}

	if err := Validate(payload, mode); err != nil {
		return params, err
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return params, &ValidationError{Message: "request body must be a valid JSON object"}
	}

	known := make(map[string]any, len(object))

	for _, name := range jsonFieldNames(reflect.TypeOf(params)) {
		if value, present := object[name]; present {
			known[name] = value
		}
	}

	filtered, err := json.Marshal(known)
	if err != nil {
		return params, &ValidationError{Message: err.Error()}
	}

	if _, err := decodeInto(filtered, &params); err != nil {
		return params, &ValidationError{Message: err.Error()}
	}

	if err := Validator.Struct(params); err != nil {
		return params, FormatValidationErrors(err)
	}

	return params, nil
}

func decodeJSON(body []byte) (any, error) {
	var payload any

	return decodeInto(body, &payload)
}

// decodeInto decodes exactly one JSON value with UseNumber and returns it.
func decodeInto[V any](body []byte, dst *V) (V, error) {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	if err := decoder.Decode(dst); err != nil {
		return *dst, err
	}

	if decoder.More() {
		return *dst, errors.New("request body must contain a single JSON object")
	}

	return *dst, nil
}

func jsonFieldNames(t reflect.Type) []string {
	if t.Kind() != reflect.Struct {
		return nil
	}

	names := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("json"), ",", 2)[0]

		if name != "" && name != "-" {
			names = append(names, name)
		}
	}

	return names
}
