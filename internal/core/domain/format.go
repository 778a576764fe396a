package domain

// ExportFormat selects the representation of a document export.
type ExportFormat string

// Export formats accepted by the download endpoint.
const (
	// ExportCSV is tabular text.
	ExportCSV ExportFormat = "csv"

	// ExportJSON is a single structured-data document.
	ExportJSON ExportFormat = "json"

	// ExportJSONL is line-oriented: one JSON record per line.
	ExportJSONL ExportFormat = "json1"
)

// ExportFormats lists every supported export format.
func ExportFormats() []ExportFormat {
	return []ExportFormat{ExportCSV, ExportJSON, ExportJSONL}
}

// IsValid returns true if the export format is recognised.
func (f ExportFormat) IsValid() bool {
	switch f {
	case ExportCSV, ExportJSON, ExportJSONL:
		return true
	default:
		return false
	}
}

// ContentType is the media type negotiated with the server.
func (f ExportFormat) ContentType() string {
	if f == ExportCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// FileName is the name given to a materialised download.
func (f ExportFormat) FileName() string {
	return "file." + string(f)
}

// UploadFormat tells the server how to parse an uploaded file.
type UploadFormat string

// Upload formats accepted by the upload endpoint.
const (
	UploadPlain UploadFormat = "plain"
	UploadCSV   UploadFormat = "csv"
	UploadJSON  UploadFormat = "json"
	UploadCoNLL UploadFormat = "conll"
	UploadExcel UploadFormat = "excel"
)

// UploadFormats lists every supported upload format.
func UploadFormats() []UploadFormat {
	return []UploadFormat{UploadPlain, UploadCSV, UploadJSON, UploadCoNLL, UploadExcel}
}

// IsValid returns true if the upload format is recognised.
func (f UploadFormat) IsValid() bool {
	switch f {
	case UploadPlain, UploadCSV, UploadJSON, UploadCoNLL, UploadExcel:
		return true
	default:
		return false
	}
}

// Extensions returns the file extensions conventionally used for f.
func (f UploadFormat) Extensions() []string {
	switch f {
	case UploadPlain:
		return []string{".txt"}
	case UploadCSV:
		return []string{".csv", ".tsv"}
	case UploadJSON:
		return []string{".json", ".jsonl"}
	case UploadCoNLL:
		return []string{".conll", ".txt"}
	case UploadExcel:
		return []string{".xlsx", ".xls"}
	default:
		return nil
	}
}

// FileUpload is a local file packaged for a multipart upload.
type FileUpload struct {
	// Name is the file name sent to the server.
	Name string

	// Content is the raw file body.
	Content []byte

	// Format tells the server how to parse the file. Empty for files
	// whose format is fixed by the endpoint.
	Format UploadFormat

	// Splitter separates documents within plain text uploads.
	Splitter string
}

// Mapping roles understood by the random assignment endpoint.
const (
	RoleAnnotator          = "annotator"
	RoleAnnotationApprover = "annotation_approver"
)
