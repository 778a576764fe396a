package services

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driven"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Environment variables that override the stored connection settings.
//
//nolint:gosec // G101: variable names, not credentials.
const (
	EnvServerURL = "LABELKIT_URL"
	EnvToken     = "LABELKIT_TOKEN"
)

// settingKind tells Set how to parse a raw value.
type settingKind int

const (
	kindString settingKind = iota
	kindInt
	kindFloat
	kindSeconds
	kindUploadFormat
)

var settingKinds = map[string]settingKind{
	domain.KeyServerURL:         kindString,
	domain.KeyServerToken:       kindString,
	domain.KeyServerTokenType:   kindString,
	domain.KeyServerTimeout:     kindSeconds,
	domain.KeyServerRateLimit:   kindFloat,
	domain.KeyDefaultProject:    kindInt,
	domain.KeyPageSize:          kindInt,
	domain.KeyDownloadsDir:      kindString,
	domain.KeyBulkConcurrency:   kindInt,
	domain.KeyHotFolderFormat:   kindUploadFormat,
	domain.KeyHotFolderSplitter: kindString,
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// Get retrieves current application settings. Unset keys take their
// defaults; LABELKIT_URL and LABELKIT_TOKEN win over the file.
func (s *SettingsService) Get() (domain.Settings, error) {
	defaults := domain.DefaultSettings()

	settings := domain.Settings{
		ServerURL:         s.configStore.GetString(domain.KeyServerURL),
		Token:             s.configStore.GetString(domain.KeyServerToken),
		TokenType:         s.getString(domain.KeyServerTokenType, defaults.TokenType),
		Timeout:           s.getSeconds(domain.KeyServerTimeout, defaults.Timeout),
		RateLimit:         s.getFloat(domain.KeyServerRateLimit, defaults.RateLimit),
		DefaultProject:    s.configStore.GetInt(domain.KeyDefaultProject),
		PageSize:          s.getInt(domain.KeyPageSize, defaults.PageSize),
		DownloadsDir:      s.getString(domain.KeyDownloadsDir, defaults.DownloadsDir),
		BulkConcurrency:   s.getInt(domain.KeyBulkConcurrency, defaults.BulkConcurrency),
		HotFolderFormat:   domain.UploadFormat(s.getString(domain.KeyHotFolderFormat, string(defaults.HotFolderFormat))),
		HotFolderSplitter: s.getString(domain.KeyHotFolderSplitter, defaults.HotFolderSplitter),
	}

	if v, ok := s.lookupEnv(EnvServerURL); ok && v != "" {
		settings.ServerURL = v
	}
	if v, ok := s.lookupEnv(EnvToken); ok && v != "" {
		settings.Token = v
	}

	settings.ServerURL = strings.TrimRight(settings.ServerURL, "/")
	return settings, nil
}

// Set parses value according to key and persists it. The resulting
// settings must still pass field validation, except for the connection
// fields which may be filled in one at a time.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.checkField(key, parsed); err != nil {
		return err
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Keys returns every known configuration key, sorted.
func (s *SettingsService) Keys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Validate checks that the settings are usable for talking to the server.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.ServerURL == "" || settings.Token == "" {
		return fmt.Errorf("%w: set %s and %s (or %s and %s)", domain.ErrNotConfigured,
			domain.KeyServerURL, domain.KeyServerToken, EnvServerURL, EnvToken)
	}
	if err := validateSettings(settings); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// checkField validates a single parsed value against the same rules as
// Validate, ignoring failures of other fields.
func (s *SettingsService) checkField(key string, parsed any) error {
	st := domain.DefaultSettings()
	st.ServerURL = "http://localhost"
	st.Token = "x"

	switch key {
	case domain.KeyServerURL:
		st.ServerURL = parsed.(string)
	case domain.KeyServerToken:
		st.Token = parsed.(string)
	case domain.KeyServerTokenType:
		st.TokenType = parsed.(string)
	case domain.KeyServerTimeout:
		st.Timeout = time.Duration(parsed.(int)) * time.Second
	case domain.KeyServerRateLimit:
		st.RateLimit = parsed.(float64)
	case domain.KeyDefaultProject:
		st.DefaultProject = parsed.(int)
	case domain.KeyPageSize:
		st.PageSize = parsed.(int)
	case domain.KeyBulkConcurrency:
		st.BulkConcurrency = parsed.(int)
	case domain.KeyHotFolderFormat:
		st.HotFolderFormat = domain.UploadFormat(parsed.(string))
	default:
		return nil
	}

	if err := validateSettings(st); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}
	return nil
}

func parseSetting(kind settingKind, value string) (any, error) {
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindSeconds:
		// Accept both "45" and "45s".
		if d, err := time.ParseDuration(value); err == nil {
			return int(d / time.Second), nil
		}
		return strconv.Atoi(value)
	default:
		return value, nil
	}
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return time.Duration(val) * time.Second
}
