// Copyright (c) 2026 Elimu. All rights reserved.
// Author: joseph.masanja.tz@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmasanja/elimu/internal/platform/apperr"
	"github.com/jmasanja/elimu/internal/platform/validate"
)

func TestValidator_AllRulesPass(t *testing.T) {
	validator := &validate.Validator{}
	validator.Required("title", "Darasa la Kwanza").
		MaxLen("title", "Darasa la Kwanza", 255).
		Email("email", "amina@example.com").
		URL("link", "https://elimu.co.tz/resources").
		Range("year", 2024, 1900, 2100).
		OneOf("level", "primary", "primary", "secondary")

	assert.NoError(t, validator.Err())
	assert.False(t, validator.HasErrors())
}

func TestValidator_CollectsEveryFailure(t *testing.T) {
	validator := &validate.Validator{}
	validator.Required("title", "   ").
		Email("email", "not-an-email").
		Range("year", 1800, 1900, 2100).
		OneOf("level", "tertiary", "primary", "secondary").
		Custom("options", true, "must contain at least two options")

	err := validator.Err()
	require.Error(t, err)

	appError := apperr.As(err)
	require.NotNil(t, appError)
	assert.Equal(t, "VALIDATION_ERROR", appError.Code)
	require.Len(t, appError.Details, 5)

	fields := make([]string, 0, len(appError.Details))
	for _, detail := range appError.Details {
		fields = append(fields, detail.Field)
	}
	assert.ElementsMatch(t, []string{"title", "email", "year", "level", "options"}, fields)
}

func TestValidator_CustomSkipsWhenConditionHolds(t *testing.T) {
	validator := &validate.Validator{}
	validator.Custom("options", false, "must contain at least two options")

	assert.NoError(t, validator.Err())
}

func TestValidator_UUID(t *testing.T) {
	validator := &validate.Validator{}
	validator.UUID("id", "0192b1c2-0000-7000-8000-000000000001")
	assert.NoError(t, validator.Err())

	validator = &validate.Validator{}
	validator.UUID("id", "not-a-uuid")
	assert.Error(t, validator.Err())
}

func TestValidator_LengthBounds(t *testing.T) {
	validator := &validate.Validator{}
	validator.MinLen("password", "short", 8)
	assert.Error(t, validator.Err())

	validator = &validate.Validator{}
	validator.MaxLen("phone", "123456789012345678901", 20)
	assert.Error(t, validator.Err())
}
