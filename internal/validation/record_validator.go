package validation

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "ecomcli/internal/errors"
	"ecomcli/pkg/contracts/domain"
)

// RecordValidator checks the shape of loaded records against their
// validate struct tags. Business rules (cancellations, non-positive values,
// missing customers) are left to cleaning.
type RecordValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewRecordValidator creates a validator that reports fields by their json name
func NewRecordValidator(logger *slog.Logger) *RecordValidator {
	if logger == nil {
		logger = slog.Default()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	return &RecordValidator{validate: v, logger: logger}
}

// ValidateRecord validates one record. row is the 1-based data row used in
// error messages.
func (rv *RecordValidator) ValidateRecord(row int, r domain.RawRecord) error {
	err := rv.validate.Struct(r)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		rv.logger.Debug("Record failed validation",
			slog.Int("row", row),
			slog.String("field", fe.Field()),
			slog.String("rule", fe.Tag()))
		return apperrors.NewValidationErrorWithCause(
			fmt.Sprintf("row %d: field %s failed %q", row, fe.Field(), fe.Tag()), err).
			WithContext("row", row).
			WithContext("field", fe.Field())
	}

	return apperrors.NewValidationErrorWithCause(fmt.Sprintf("row %d", row), err)
}

// ValidateDataset validates every record and fails on the first invalid one
func (rv *RecordValidator) ValidateDataset(ds *domain.Dataset) error {
	if ds == nil {
		return apperrors.NewAppValidationError("dataset is nil")
	}
	for i, r := range ds.Records {
		if err := rv.ValidateRecord(i+1, r); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStruct validates any tagged struct, such as a configuration section
func (rv *RecordValidator) ValidateStruct(s interface{}) error {
	if err := rv.validate.Struct(s); err != nil {
		return apperrors.NewValidationErrorWithCause("struct validation failed", err)
	}
	return nil
}
