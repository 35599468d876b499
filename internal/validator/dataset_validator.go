// Package validator checks a decoded dataset before it is published
package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourorg/atlas-directory/internal/model"

	playground "github.com/go-playground/validator/v10"
)

// ValidationError lists every problem found in a dataset
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("dataset is invalid: %s", strings.Join(e.Problems, "; "))
}

// Report is the outcome of a successful validation. Warnings never block a
// dataset from being published.
type Report struct {
	Warnings []string
}

// DatasetValidator validates datasets using struct tags plus referential checks
type DatasetValidator struct {
	validate *playground.Validate
}

// NewDatasetValidator creates a new dataset validator
func NewDatasetValidator() *DatasetValidator {
	v := playground.New()
	v.SetTagName("validate")
	return &DatasetValidator{validate: v}
}

// ValidateDataset validates a dataset. Unknown category references are
// reported as warnings since such resources are served as "Unmapped".
func (v *DatasetValidator) ValidateDataset(ds *model.Dataset) (*Report, error) {
	if ds == nil {
		return nil, errors.New("dataset is nil")
	}

	var problems []string

	if err := v.validate.Struct(ds); err != nil {
		var fieldErrs playground.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fe := range fieldErrs {
				problems = append(problems, describeFieldError(fe))
			}
		} else {
			return nil, fmt.Errorf("validate dataset: %w", err)
		}
	}

	categoryIDs := make(map[string]bool, len(ds.Categories))
	for _, cat := range ds.Categories {
		if cat.ID == "" {
			continue
		}
		if categoryIDs[cat.ID] {
			problems = append(problems, fmt.Sprintf("duplicate category id %q", cat.ID))
		}
		categoryIDs[cat.ID] = true
	}

	report := &Report{}
	resourceIDs := make(map[string]bool, len(ds.Resources))
	for _, res := range ds.Resources {
		if res.ID != "" {
			if resourceIDs[res.ID] {
				problems = append(problems, fmt.Sprintf("duplicate resource id %q", res.ID))
			}
			resourceIDs[res.ID] = true
		}
		if !categoryIDs[res.CategoryID] {
			report.Warnings = append(report.Warnings,
				fmt.Sprintf("resource %q references unknown category %q", res.ID, res.CategoryID))
		}
	}

	if len(problems) > 0 {
		return report, &ValidationError{Problems: problems}
	}
	return report, nil
}

func describeFieldError(fe playground.FieldError) string {
	field := fe.Namespace()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %v", field, fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %v", field, fe.Value())
	case "min", "max":
		return fmt.Sprintf("%s violates %s=%s, got %v", field, fe.Tag(), fe.Param(), derefValue(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}

func derefValue(v interface{}) interface{} {
	switch p := v.(type) {
	case *int64:
		if p != nil {
			return *p
		}
	case *float64:
		if p != nil {
			return *p
		}
	}
	return v
}
