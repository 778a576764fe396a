package services

import (
	"fmt"
	"net/url"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/custodia-labs/labelkit/internal/core/domain"
)

func uploadFormatRule() validation.Rule {
	formats := domain.UploadFormats()
	allowed := make([]any, len(formats))
	for i, f := range formats {
		allowed[i] = f
	}
	return validation.In(allowed...).Error("must be one of plain, csv, json, conll, excel")
}

func exportFormatRule() validation.Rule {
	formats := domain.ExportFormats()
	allowed := make([]any, len(formats))
	for i, f := range formats {
		allowed[i] = f
	}
	return validation.In(allowed...).Error("must be one of csv, json, json1")
}

var roleRule = validation.In(domain.RoleAnnotator, domain.RoleAnnotationApprover).
	Error("must be annotator or annotation_approver")

// httpURL accepts absolute http and https URLs.
var httpURL = validation.By(func(value any) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("must use http or https scheme, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("must include a host")
	}
	return nil
})

func validateUploadFormat(format domain.UploadFormat) error {
	if err := validation.Validate(format, validation.Required, uploadFormatRule()); err != nil {
		return fmt.Errorf("%w: format %q: %v", domain.ErrUnsupportedFormat, format, err)
	}
	return nil
}

func validateExportFormat(format domain.ExportFormat) error {
	if err := validation.Validate(format, validation.Required, exportFormatRule()); err != nil {
		return fmt.Errorf("%w: format %q: %v", domain.ErrUnsupportedFormat, format, err)
	}
	return nil
}

func validateRandomMapping(role string, number int) error {
	err := validation.Errors{
		"role":   validation.Validate(role, validation.Required, roleRule),
		"number": validation.Validate(number, validation.Required, validation.Min(1)),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

func validateSettings(st domain.Settings) error {
	return validation.ValidateStruct(&st,
		validation.Field(&st.ServerURL, validation.Required, httpURL),
		validation.Field(&st.Token, validation.Required),
		validation.Field(&st.TokenType, validation.Required),
		validation.Field(&st.Timeout, validation.Required, validation.Min(domain.MinTimeout)),
		validation.Field(&st.RateLimit, validation.Min(0.0)),
		validation.Field(&st.DefaultProject, validation.Min(0)),
		validation.Field(&st.PageSize, validation.Required, validation.Min(1)),
		validation.Field(&st.BulkConcurrency, validation.Required, validation.Min(1)),
		validation.Field(&st.HotFolderFormat, uploadFormatRule()),
	)
}
