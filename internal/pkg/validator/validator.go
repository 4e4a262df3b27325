// SPDX-License-Identifier: AGPL-3.0-or-later
// Copyright (c) 2025-2026 mantix contributors
// https://github.com/ferrovia/mantix

// Package validator wraps go-playground/validator with the application's
// custom validations and human-readable error messages.
package validator

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Validator validates structs and single variables.
type Validator struct {
	v *validator.Validate
}

var (
	once     sync.Once
	instance *validator.Validate
)

// New returns a Validator backed by the shared underlying instance.
func New() *Validator {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())

		// Report field names from json tags so API error payloads match the
		// request body.
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		registerCustom(instance)
	})
	return &Validator{v: instance}
}

// Validate validates a struct using its validate tags.
func (val *Validator) Validate(s interface{}) error {
	return val.v.Struct(s)
}

// ValidateVar validates a single variable against a tag expression.
func (val *Validator) ValidateVar(field interface{}, tag string) error {
	return val.v.Var(field, tag)
}

// ValidationErrors converts a validation error into a field → message map.
// Non-validation errors are reported under the "_error" key.
func (val *Validator) ValidationErrors(err error) map[string]string {
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_error": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = formatValidationError(fe)
	}
	return out
}

// ============================================================================
// Global convenience functions
// ============================================================================

// Validate validates a struct with the shared Validator.
func Validate(s interface{}) error {
	return New().Validate(s)
}

// ValidateVar validates a single variable with the shared Validator.
func ValidateVar(field interface{}, tag string) error {
	return New().ValidateVar(field, tag)
}

// GetValidationErrors converts err into a field → message map.
func GetValidationErrors(err error) map[string]string {
	return New().ValidationErrors(err)
}

// ============================================================================
// Custom validations
// ============================================================================

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9_]{2,31}$`)
	assetTagRe = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._/-]*$`)
	hexRe      = regexp.MustCompile(`^[0-9a-fA-F]+$`)
)

func registerCustom(v *validator.Validate) {
	must(v.RegisterValidation("username", validUsername))
	must(v.RegisterValidation("password_strength", validPasswordStrength))
	must(v.RegisterValidation("asset_tag", validAssetTag))
	must(v.RegisterValidation("frequency", validFrequency))
	must(v.RegisterValidation("cron", validCron))
	must(v.RegisterValidation("hexstring", validHexString))
	must(v.RegisterValidation("port", validPort))
}

func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("validator: register failed: %v", err))
	}
}

func validUsername(fl validator.FieldLevel) bool {
	return usernameRe.MatchString(fl.Field().String())
}

func validPasswordStrength(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if len(s) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range s {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

// validAssetTag accepts inventory tag formats like "SRV-001" or
// "hq/rack2/ups.1".
func validAssetTag(fl validator.FieldLevel) bool {
	return assetTagRe.MatchString(fl.Field().String())
}

func validFrequency(fl validator.FieldLevel) bool {
	switch strings.ToLower(fl.Field().String()) {
	case "weekly", "monthly", "quarterly":
		return true
	}
	return false
}

// validCron accepts standard 5-field and seconds-extended 6-field
// expressions.
func validCron(fl validator.FieldLevel) bool {
	fields := strings.Fields(fl.Field().String())
	return len(fields) == 5 || len(fields) == 6
}

func validHexString(fl validator.FieldLevel) bool {
	return hexRe.MatchString(fl.Field().String())
}

func validPort(fl validator.FieldLevel) bool {
	port := fl.Field().Int()
	return port >= 1 && port <= 65535
}

// ============================================================================
// Error formatting
// ============================================================================

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "username":
		return "must start with a letter and contain only letters, digits, and underscores"
	case "password_strength":
		return "must be at least 8 characters with upper case, lower case, and a digit"
	case "asset_tag":
		return "must be a valid asset tag"
	case "frequency":
		return "must be one of: weekly, monthly, quarterly"
	case "cron":
		return "must be a valid cron expression"
	case "hexstring":
		return "must be a hexadecimal string"
	case "port":
		return "must be a valid port number (1-65535)"
	case "uuid":
		return "must be a valid UUID"
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
