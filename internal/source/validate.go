package source

import (
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ppiankov/tweetlens/internal/model"
)

// maxReportedErrors caps how many bad records one error message lists
const maxReportedErrors = 10

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return model.IsValidUsername(fl.Field().String())
		})
	})
	return validate
}

// RecordError describes one invalid record
type RecordError struct {
	Index int    // position in the collection (0-based)
	ID    int64  // tweet id, 0 if missing
	Field string // offending field
	Rule  string // failed rule, e.g. "required" or "username"
}

func (e RecordError) Error() string {
	return fmt.Sprintf("record %d (id %d): %s failed %q", e.Index, e.ID, e.Field, e.Rule)
}

// Validate checks every tweet's fields and that ids are unique
func Validate(tweets []model.Tweet) error {
	v := getValidator()

	var errs []error
	seen := make(map[int64]int, len(tweets))

	for i, t := range tweets {
		if err := v.Struct(t); err != nil {
			var fieldErrs validator.ValidationErrors
			if !errors.As(err, &fieldErrs) {
				return err
			}
			for _, fe := range fieldErrs {
				errs = append(errs, RecordError{Index: i, ID: t.ID, Field: fe.Field(), Rule: fe.Tag()})
			}
		}

		if t.ID != 0 {
			if first, dup := seen[t.ID]; dup {
				errs = append(errs, RecordError{Index: i, ID: t.ID, Field: "ID", Rule: fmt.Sprintf("unique (first seen at record %d)", first)})
			} else {
				seen[t.ID] = i
			}
		}
	}

	if len(errs) == 0 {
		return nil
	}
	if len(errs) > maxReportedErrors {
		more := len(errs) - maxReportedErrors
		errs = append(errs[:maxReportedErrors], fmt.Errorf("and %d more", more))
	}
	return fmt.Errorf("%w: %w", model.ErrInvalidArgument, errors.Join(errs...))
}
