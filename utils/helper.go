package utils

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

var CountryCode = "PK"

var BusinessTimezone = "Asia/Karachi"

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err // Phone number is invalid
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil // Phone number is valid for the specified country code
}

func ProcessValidationErrors(err error) map[string]string {

	validationErrors := err.(validator.ValidationErrors)

	errorResponse := make(map[string]string)

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

// GenerateInvoiceNumber returns a purchase invoice number like INV1716899412345-382.
func GenerateInvoiceNumber() string {
	return fmt.Sprintf("INV%d-%d", time.Now().UnixMilli(), rand.Intn(1000))
}

// NormalizeCompanyName lowercases and strips all whitespace, so "Al Haj Tyres"
// and "alhaj tyres" collapse to the same ledger key.
func NormalizeCompanyName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), ""))
}

// NormalizeCustomerName lowercases and trims. Customer names keep their inner
// spaces.
func NormalizeCustomerName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// KeyPart lowercases a stock-key component, mapping empty to "N/A" first so
// missing attributes still group together.
func KeyPart(s string) string {
	if strings.TrimSpace(s) == "" {
		s = "N/A"
	}
	return strings.ToLower(s)
}

// ParseDateString parses a yyyy-mm-dd date.
func ParseDateString(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errors.New("empty date string")
	}
	return time.Parse("2006-01-02", value)
}

func ConvertToDate(t time.Time, timezone string) (time.Time, error) {
	if timezone == "" {
		timezone = BusinessTimezone
	}

	location, err := time.LoadLocation(timezone)
	if err != nil {
		return t, err
	}
	localTime := t.In(location)

	dateOnly := time.Date(localTime.Year(), localTime.Month(), localTime.Day(), 0, 0, 0, 0, location)
	return dateOnly, nil
}

// Today returns the current date (midnight) in the business timezone.
func Today() time.Time {
	d, err := ConvertToDate(time.Now(), BusinessTimezone)
	if err != nil {
		return time.Now().Truncate(24 * time.Hour)
	}
	return d
}

// returns slice removing duplicate elements
func UniqueSlice[T comparable](slice []T) []T {
	inResult := make(map[T]bool)
	var result []T
	for _, elm := range slice {
		if _, ok := inResult[elm]; !ok {
			inResult[elm] = true
			result = append(result, elm)
		}
	}
	return result
}
