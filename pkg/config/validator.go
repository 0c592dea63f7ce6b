package config

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Validator provides semantic validation for configuration values
type Validator struct{}

// ValidateKeyValue validates a configuration key-value pair
// Returns nil if valid, or an error describing the validation failure
func (v *Validator) ValidateKeyValue(key, value string) error {
	parts := strings.Split(key, ".")
	if len(parts) < 2 {
		return NewInvalidValueError(key, fmt.Errorf("configuration key must have at least section.name format"))
	}

	section := parts[0]
	name := strings.Join(parts[1:], ".")

	switch section {
	case "log":
		return v.validateLog(name, value)
	case "checkout":
		return v.validateCheckout(name, value)
	case "store":
		return v.validateStoreKey(name, value)
	default:
		// Unknown sections are allowed (extensibility)
		return nil
	}
}

func (v *Validator) validateLog(name, value string) error {
	switch name {
	case "level":
		return v.validateOneOf("log.level", value, "debug", "info", "warn", "error")
	case "format":
		return v.validateOneOf("log.format", value, "text", "json")
	default:
		return nil
	}
}

func (v *Validator) validateCheckout(name, value string) error {
	switch name {
	case "preserve_mode":
		return v.validateBoolean(value, "checkout.preserve_mode")
	default:
		return nil
	}
}

func (v *Validator) validateStoreKey(name, value string) error {
	switch name {
	case "compression_level":
		return v.validateIntRange(value, "store.compression_level", 0, 9)
	default:
		return nil
	}
}

func (v *Validator) validateBoolean(value, key string) error {
	lower := strings.ToLower(strings.TrimSpace(value))
	validValues := []string{"true", "false", "yes", "no", "1", "0", "on", "off"}
	if slices.Contains(validValues, lower) {
		return nil
	}
	return NewInvalidValueError(key, fmt.Errorf("must be a boolean (true/false/yes/no/1/0/on/off)"))
}

func (v *Validator) validateIntRange(value, key string, min, max int) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return NewInvalidValueError(key, fmt.Errorf("must be an integer: %v", err))
	}
	if n < min || n > max {
		return NewInvalidValueError(key, fmt.Errorf("must be between %d and %d", min, max))
	}
	return nil
}

func (v *Validator) validateOneOf(key, value string, allowed ...string) error {
	lower := strings.ToLower(strings.TrimSpace(value))
	if slices.Contains(allowed, lower) {
		return nil
	}
	return NewInvalidValueError(key, fmt.Errorf("must be one of: %s", strings.Join(allowed, ", ")))
}
