package domain

import "time"

// Configuration keys as stored in the config file (dot notation).
const (
	KeyServerURL         = "server.url"
	KeyServerToken       = "server.token"
	KeyServerTokenType   = "server.token_type"
	KeyServerTimeout     = "server.timeout"
	KeyServerRateLimit   = "server.rate_limit"
	KeyDefaultProject    = "project.default"
	KeyPageSize          = "documents.page_size"
	KeyDownloadsDir      = "downloads.dir"
	KeyBulkConcurrency   = "bulk.concurrency"
	KeyHotFolderFormat   = "hotfolder.format"
	KeyHotFolderSplitter = "hotfolder.splitter"
)

// Settings defaults.
const (
	DefaultTokenType       = "Token"
	DefaultTimeout         = 30 * time.Second
	MinTimeout             = time.Second
	DefaultRateLimit       = 10.0
	DefaultBulkConcurrency = 4
	DefaultSplitter        = "\n"
)

// Settings is the typed view of the configuration file.
type Settings struct {
	// ServerURL is the base URL of the annotation server API,
	// e.g. "https://annotate.example.com/v1".
	ServerURL string

	// Token is the API token.
	Token string

	// TokenType prefixes the token in the Authorization header.
	TokenType string

	// Timeout bounds every HTTP request.
	Timeout time.Duration

	// RateLimit is the proactive request rate per second. Zero disables it.
	RateLimit float64

	// DefaultProject is used when no --project flag is given.
	DefaultProject int

	// PageSize is the initial document list limit.
	PageSize int

	// DownloadsDir is where exports are written.
	DownloadsDir string

	// BulkConcurrency bounds in-flight requests of one bulk operation.
	BulkConcurrency int

	// HotFolderFormat is the upload format used by the hot folder.
	HotFolderFormat UploadFormat

	// HotFolderSplitter is the splitter used by the hot folder.
	HotFolderSplitter string
}

// DefaultSettings returns settings with every default applied.
func DefaultSettings() Settings {
	return Settings{
		TokenType:         DefaultTokenType,
		Timeout:           DefaultTimeout,
		RateLimit:         DefaultRateLimit,
		PageSize:          DefaultLimit,
		DownloadsDir:      ".",
		BulkConcurrency:   DefaultBulkConcurrency,
		HotFolderFormat:   UploadPlain,
		HotFolderSplitter: DefaultSplitter,
	}
}
