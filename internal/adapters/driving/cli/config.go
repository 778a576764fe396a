package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/labelkit/internal/core/domain"
	"github.com/custodia-labs/labelkit/internal/core/ports/driving"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change settings",
	Long: `View and change the settings stored in config.toml.

LABELKIT_URL and LABELKIT_TOKEN override the stored server.url and
server.token.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one setting",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change one setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store the API token for the server",
	Long: `Prompt for the API token and store it as server.token. The token is not
echoed when read from a terminal.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var loginURL string

func init() {
	loginCmd.Flags().StringVar(&loginURL, "url", "", "Also set server.url")
	// Values such as -1 are arguments, not shorthand flags.
	configSetCmd.Flags().SetInterspersed(false)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(loginCmd)
}

func settingsService() (driving.SettingsService, error) {
	a, err := currentApp()
	if err != nil {
		return nil, err
	}
	if a.Settings == nil {
		return nil, errors.New("settings service not configured")
	}
	return a.Settings, nil
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	st, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	for _, key := range svc.Keys() {
		v, _ := settingValue(st, key)
		if key == domain.KeyServerToken {
			v = maskToken(v)
		}
		cmd.Printf("  %-20s %s\n", key, v)
	}
	cmd.Println()

	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	st, err := svc.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	v, ok := settingValue(st, args[0])
	if !ok {
		return fmt.Errorf("%w: unknown key %q", domain.ErrInvalidInput, args[0])
	}
	cmd.Println(v)
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if err := svc.Set(args[0], args[1]); err != nil {
		return err
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

func runLogin(cmd *cobra.Command, _ []string) error {
	svc, err := settingsService()
	if err != nil {
		return err
	}
	if loginURL != "" {
		if err := svc.Set(domain.KeyServerURL, loginURL); err != nil {
			return err
		}
	}

	cmd.Print("API token: ")
	token, err := readSecret(cmd.InOrStdin())
	cmd.Println()
	if err != nil {
		return fmt.Errorf("failed to read token: %w", err)
	}
	if token == "" {
		return fmt.Errorf("%w: empty token", domain.ErrInvalidInput)
	}
	if err := svc.Set(domain.KeyServerToken, token); err != nil {
		return err
	}

	cmd.Println("Token saved.")
	if err := svc.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	}
	return nil
}

// readSecret reads one line without echo when in is a terminal.
func readSecret(in io.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func settingValue(st domain.Settings, key string) (string, bool) {
	switch key {
	case domain.KeyServerURL:
		return st.ServerURL, true
	case domain.KeyServerToken:
		return st.Token, true
	case domain.KeyServerTokenType:
		return st.TokenType, true
	case domain.KeyServerTimeout:
		return st.Timeout.String(), true
	case domain.KeyServerRateLimit:
		return strconv.FormatFloat(st.RateLimit, 'g', -1, 64), true
	case domain.KeyDefaultProject:
		return strconv.Itoa(st.DefaultProject), true
	case domain.KeyPageSize:
		return strconv.Itoa(st.PageSize), true
	case domain.KeyDownloadsDir:
		return st.DownloadsDir, true
	case domain.KeyBulkConcurrency:
		return strconv.Itoa(st.BulkConcurrency), true
	case domain.KeyHotFolderFormat:
		return string(st.HotFolderFormat), true
	case domain.KeyHotFolderSplitter:
		return strconv.Quote(st.HotFolderSplitter), true
	default:
		return "", false
	}
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "..." + token[len(token)-4:]
}
