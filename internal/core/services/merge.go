package services

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

// applyFields assigns every key of fields onto the matching json-tagged
// field of dst. Keys absent from fields leave dst untouched; explicit
// nulls reset the field to its zero value.
func applyFields(dst any, fields domain.Fields) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "json",
		ZeroFields: true,
		Result:     dst,
		DecodeHook: mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
	})
	if err != nil {
		return fmt.Errorf("failed to build decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(fields)); err != nil {
		return fmt.Errorf("failed to apply fields: %w", err)
	}
	return nil
}
