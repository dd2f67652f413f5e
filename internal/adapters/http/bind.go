package httpadapter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/kirillkom/loan-document-vetting/internal/core/domain"
)

type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

var (
	validatorOnce sync.Once
	validatorSvc  *requestValidator
)

// getValidator builds the validator once, with english messages that use
// json tag names.
func getValidator() *requestValidator {
	validatorOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("json")
			if tag == "-" || tag == "" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		validatorSvc = &requestValidator{validate: v, translator: trans}
	})
	return validatorSvc
}

// validateRequest returns the first violation as an ErrInvalidInput.
func validateRequest(operation string, payload any) error {
	svc := getValidator()
	err := svc.validate.Struct(payload)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return domain.WrapError(domain.ErrInvalidInput, operation, errors.New(verrs[0].Translate(svc.translator)))
	}
	return domain.WrapError(domain.ErrInvalidInput, operation, err)
}

// parseJSON decodes a single JSON object into T and validates it.
func parseJSON[T any](r *http.Request, maxBytes int64) (T, error) {
	var zero T
	reader := io.Reader(r.Body)
	if maxBytes > 0 {
		reader = io.LimitReader(r.Body, maxBytes)
	}

	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()

	var dst T
	if err := dec.Decode(&dst); err != nil {
		if errors.Is(err, io.EOF) {
			return zero, domain.WrapError(domain.ErrInvalidInput, "decode json", errors.New("empty body"))
		}
		return zero, domain.WrapError(domain.ErrInvalidInput, "decode json", fmt.Errorf("invalid JSON: %w", err))
	}
	if dec.More() {
		return zero, domain.WrapError(domain.ErrInvalidInput, "decode json", errors.New("unexpected trailing data"))
	}
	if err := validateRequest("validate json", dst); err != nil {
		return zero, err
	}
	return dst, nil
}
