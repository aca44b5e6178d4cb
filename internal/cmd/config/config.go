// Package config provides CLI commands for managing duechat configuration.
package config

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	appconfig "github.com/Iron-Ham/duechat/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Wrapper functions for exec to allow testing
var execLookPath = exec.LookPath
var execCommand = exec.Command

// Value kinds accepted by config set.
const (
	kindString = "string"
	kindBool   = "bool"
	kindInt    = "int"
	kindLevel  = "level"
	kindURL    = "url"
)

// setting describes one configuration key.
type setting struct {
	Key     string
	Kind    string
	Comment string
	Value   func(*appconfig.Config) any
}

// section groups settings under a top-level key in the config file.
type section struct {
	Name    string
	Comment string
}

var sections = []section{
	{Name: "api", Comment: "Collections backend"},
	{Name: "pacing", Comment: "Reply pacing, so agent answers do not appear instantly"},
	{Name: "conversation", Comment: "Conversation state handling"},
	{Name: "tui", Comment: "TUI (terminal user interface) settings"},
	{Name: "logging", Comment: "Debug logging"},
}

var settings = []setting{
	{
		Key:     "api.base_url",
		Kind:    kindURL,
		Comment: "Backend root including the /api prefix",
		Value:   func(c *appconfig.Config) any { return c.API.BaseURL },
	},
	{
		Key:     "api.timeout_seconds",
		Kind:    kindInt,
		Comment: "Request timeout in seconds",
		Value:   func(c *appconfig.Config) any { return c.API.TimeoutSeconds },
	},
	{
		Key:     "pacing.min_delay_ms",
		Kind:    kindInt,
		Comment: "Shortest delay before a reply is shown, in milliseconds",
		Value:   func(c *appconfig.Config) any { return c.Pacing.MinDelayMs },
	},
	{
		Key:     "pacing.max_delay_ms",
		Kind:    kindInt,
		Comment: "Longest delay before a reply is shown, in milliseconds",
		Value:   func(c *appconfig.Config) any { return c.Pacing.MaxDelayMs },
	},
	{
		Key:     "pacing.expired_reset_delay_ms",
		Kind:    kindInt,
		Comment: "How long the session-expired notice shows before starting over",
		Value:   func(c *appconfig.Config) any { return c.Pacing.ExpiredResetDelayMs },
	},
	{
		Key:     "conversation.sticky_completion",
		Kind:    kindBool,
		Comment: "Keep a completed call completed when a response omits is_complete",
		Value:   func(c *appconfig.Config) any { return c.Conversation.StickyCompletion },
	},
	{
		Key:     "tui.show_timestamps",
		Kind:    kindBool,
		Comment: "Show message timestamps sent by the backend",
		Value:   func(c *appconfig.Config) any { return c.TUI.ShowTimestamps },
	},
	{
		Key:     "tui.show_quick_replies",
		Kind:    kindBool,
		Comment: "Show the Payment/Account/Callback/Help row",
		Value:   func(c *appconfig.Config) any { return c.TUI.ShowQuickReplies },
	},
	{
		Key:     "logging.enabled",
		Kind:    kindBool,
		Comment: "Write a JSON debug log",
		Value:   func(c *appconfig.Config) any { return c.Logging.Enabled },
	},
	{
		Key:     "logging.level",
		Kind:    kindLevel,
		Comment: "Minimum level: debug, info, warn, error",
		Value:   func(c *appconfig.Config) any { return c.Logging.Level },
	},
	{
		Key:     "logging.dir",
		Kind:    kindString,
		Comment: "Log directory, empty for ~/.config/duechat/logs",
		Value:   func(c *appconfig.Config) any { return c.Logging.Dir },
	},
}

func lookupSetting(key string) (setting, bool) {
	for _, s := range settings {
		if s.Key == key {
			return s, true
		}
	}
	return setting{}, false
}

func settingKeys() []string {
	keys := make([]string, len(settings))
	for i, s := range settings {
		keys[i] = s.Key
	}
	return keys
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or modify duechat configuration",
	Long: `View or modify duechat configuration.

Without arguments, displays the current configuration.
Use subcommands to modify settings or create a config file.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Long: `Set a configuration value in the user's config file.

Keys use dot notation, e.g.:
  duechat config set api.base_url https://collections.example.com/api
  duechat config set pacing.max_delay_ms 3000
  duechat config set logging.level debug

Valid keys:
  ` + strings.Join(settingKeys(), "\n  "),
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a default config file",
	Long:  `Create a default config file at ~/.config/duechat/config.yaml with all available options.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the config file path",
	RunE:  runConfigPath,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open config file in your editor",
	Long: `Open the config file in your preferred editor.

Uses $EDITOR environment variable, or falls back to common editors (vim, nano, vi).
If no config file exists, creates one with default values first.`,
	RunE: runConfigEdit,
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset configuration to defaults",
	Long: `Reset configuration values to their defaults.

Without arguments, resets all configuration to defaults.
With a key argument, resets only that specific key.

Examples:
  duechat config reset                    # Reset all to defaults
  duechat config reset pacing.max_delay_ms  # Reset only one key`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigReset,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configEditCmd)
	configCmd.AddCommand(configResetCmd)
}

// Register adds all config-related commands to the given parent command.
func Register(parent *cobra.Command) {
	parent.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	cfg, err := appconfig.Load()
	if err != nil {
		fmt.Fprintf(out, "Configuration is invalid, showing defaults:\n%v\n\n", err)
		cfg = appconfig.Default()
	}

	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out)

	// Show where config is being read from
	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Config file: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Config file: (none - using defaults)\n")
	}
	fmt.Fprintln(out)

	writeSettings(out, cfg)
	return nil
}

// writeSettings prints every setting grouped by section.
func writeSettings(out io.Writer, cfg *appconfig.Config) {
	for _, sec := range sections {
		fmt.Fprintf(out, "%s:\n", sec.Name)
		for _, s := range settings {
			name, leaf, _ := strings.Cut(s.Key, ".")
			if name != sec.Name {
				continue
			}
			fmt.Fprintf(out, "  %s: %v\n", leaf, s.Value(cfg))
		}
	}
}

// parseSettingValue converts a command line value to the setting's type.
func parseSettingValue(s setting, value string) (any, error) {
	switch s.Kind {
	case kindBool:
		if value != "true" && value != "false" {
			return nil, fmt.Errorf("invalid value for %s: expected true or false", s.Key)
		}
		return value == "true", nil
	case kindInt:
		intVal, err := strconv.Atoi(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: expected integer", s.Key)
		}
		if intVal < 0 {
			return nil, fmt.Errorf("invalid value for %s: must be non-negative", s.Key)
		}
		return intVal, nil
	case kindLevel:
		level := strings.ToLower(value)
		if !slices.Contains(appconfig.ValidLogLevels(), level) {
			return nil, fmt.Errorf("invalid value for %s: %s\nValid options: %s",
				s.Key, value, strings.Join(appconfig.ValidLogLevels(), ", "))
		}
		return level, nil
	case kindURL:
		if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
			return nil, fmt.Errorf("invalid value for %s: must start with http:// or https://", s.Key)
		}
		return strings.TrimRight(value, "/"), nil
	default:
		return value, nil
	}
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	s, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("unknown configuration key: %s\nRun 'duechat config set --help' to see valid keys", key)
	}

	typedValue, err := parseSettingValue(s, value)
	if err != nil {
		return err
	}

	viper.Set(key, typedValue)
	configFile, err := writeConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Set %s = %v\n", key, typedValue)
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}

// writeConfig saves viper's settings to the user config file.
func writeConfig() (string, error) {
	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	configFile := appconfig.ConfigFile()
	if err := viper.WriteConfigAs(configFile); err != nil {
		return "", fmt.Errorf("failed to write config file: %w", err)
	}
	return configFile, nil
}

// defaultConfigYAML renders the default configuration as a commented
// YAML document.
func defaultConfigYAML() ([]byte, error) {
	defaults := appconfig.Default()
	root := &yaml.Node{Kind: yaml.MappingNode}

	for _, sec := range sections {
		body := &yaml.Node{Kind: yaml.MappingNode}
		for _, s := range settings {
			name, leaf, _ := strings.Cut(s.Key, ".")
			if name != sec.Name {
				continue
			}
			var value yaml.Node
			if err := value.Encode(s.Value(defaults)); err != nil {
				return nil, fmt.Errorf("failed to encode %s: %w", s.Key, err)
			}
			body.Content = append(body.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: leaf, HeadComment: s.Comment},
				&value,
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: sec.Name, HeadComment: sec.Comment},
			body,
		)
	}

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "duechat configuration\nEnvironment variables override these, e.g. DUECHAT_API_BASE_URL",
		Content:     []*yaml.Node{root},
	}
	return yaml.Marshal(doc)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	// Check if config file already exists
	if _, err := os.Stat(configFile); err == nil {
		return fmt.Errorf("config file already exists at %s\nUse 'duechat config set' to modify values", configFile)
	}

	if err := os.MkdirAll(appconfig.ConfigDir(), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	content, err := defaultConfigYAML()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, content, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created config file at %s\n", configFile)
	fmt.Fprintln(out, "Edit this file to point duechat at your backend.")
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	configFile := appconfig.ConfigFile()

	if viper.ConfigFileUsed() != "" {
		fmt.Fprintf(out, "Active config: %s\n", viper.ConfigFileUsed())
	} else {
		fmt.Fprintf(out, "Default path: %s (not created)\n", configFile)
	}

	fmt.Fprintln(out, "\nSearch paths:")
	fmt.Fprintf(out, "  1. %s\n", filepath.Join(appconfig.ConfigDir(), "config.yaml"))
	fmt.Fprintf(out, "  2. ./config.yaml (current directory)\n")
	fmt.Fprintln(out, "\nEnvironment variables: DUECHAT_* (e.g., DUECHAT_API_BASE_URL), also read from ./.env")
	return nil
}

func runConfigEdit(cmd *cobra.Command, args []string) error {
	configFile := appconfig.ConfigFile()

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file doesn't exist, creating with defaults...\n")
		if err := runConfigInit(cmd, args); err != nil {
			return err
		}
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		for _, e := range []string{"vim", "nano", "vi"} {
			if _, err := execLookPath(e); err == nil {
				editor = e
				break
			}
		}
	}
	if editor == "" {
		return fmt.Errorf("no editor found. Set $EDITOR environment variable")
	}

	editorCmd := execCommand(editor, configFile)
	editorCmd.Stdin = os.Stdin
	editorCmd.Stdout = os.Stdout
	editorCmd.Stderr = os.Stderr

	if err := editorCmd.Run(); err != nil {
		return fmt.Errorf("editor exited with error: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Config file saved: %s\n", configFile)
	return nil
}

func runConfigReset(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	defaults := appconfig.Default()

	if len(args) == 0 {
		for _, s := range settings {
			viper.Set(s.Key, s.Value(defaults))
		}
		fmt.Fprintln(out, "Reset all configuration to defaults.")
	} else {
		s, ok := lookupSetting(args[0])
		if !ok {
			return fmt.Errorf("unknown configuration key: %s\nRun 'duechat config set --help' to see valid keys", args[0])
		}
		value := s.Value(defaults)
		viper.Set(s.Key, value)
		fmt.Fprintf(out, "Reset %s to default: %v\n", s.Key, value)
	}

	configFile, err := writeConfig()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Config saved to %s\n", configFile)
	return nil
}
