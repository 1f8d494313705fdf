package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/joho/godotenv"
)

const (
	configDirName   = ".wave"
	settingsName    = "settings.json"
	credentialsName = ".env"
)

// Config holds all configuration values
type Config struct {
	Spotify  SpotifyConfig
	Download DownloadConfig
}

// SpotifyConfig holds the Spotify API credentials used by the catalog client
type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

// DownloadConfig holds where downloaded tracks are written
type DownloadConfig struct {
	Path string
}

// settings is the on-disk shape of the JSON settings file
type settings struct {
	DownloadPath string `json:"downloadPath"`
}

// Load loads configuration in layers:
// 1. Start with default values (download path defaults to ~/Downloads)
// 2. Load from OS environment variables (only if they exist)
// 3. Load from the credentials .env file (~/.wave/.env, then ./.env)
// 4. Load the download path from the JSON settings file
func Load() (*Config, error) {
	config := &Config{}

	config.initializeDefaults()
	config.loadFromOSEnv()
	config.loadFromEnvFile()

	if err := config.loadSettingsFile(); err != nil {
		return nil, err
	}

	return config, nil
}

// initializeDefaults sets up the initial configuration with default values
func (c *Config) initializeDefaults() {
	c.Spotify = SpotifyConfig{
		ClientID:     "",
		ClientSecret: "",
	}
	c.Download = DownloadConfig{
		Path: defaultDownloadPath(),
	}
}

// loadFromOSEnv loads configuration from OS environment variables (only if they exist)
func (c *Config) loadFromOSEnv() {
	if value := os.Getenv("SPOTIFY_CLIENT_ID"); value != "" {
		c.Spotify.ClientID = value
	}
	if value := os.Getenv("SPOTIFY_CLIENT_SECRET"); value != "" {
		c.Spotify.ClientSecret = value
	}
}

// loadFromEnvFile loads credentials from the stored .env file (only if it
// exists and values exist). A .env in the working directory wins over the
// stored one so local development needs nothing persisted.
func (c *Config) loadFromEnvFile() {
	if path, err := credentialsPath(); err == nil {
		_ = godotenv.Load(path)
	}
	_ = godotenv.Load()

	if value := os.Getenv("SPOTIFY_CLIENT_ID"); value != "" {
		c.Spotify.ClientID = value
	}
	if value := os.Getenv("SPOTIFY_CLIENT_SECRET"); value != "" {
		c.Spotify.ClientSecret = value
	}
}

// loadSettingsFile reads the download path from the JSON settings file,
// creating the file with defaults when it is missing or unreadable.
func (c *Config) loadSettingsFile() error {
	path, err := settingsPath()
	if err != nil {
		return err
	}

	s, err := ensureSettingsFile(path)
	if err != nil {
		return err
	}

	if s.DownloadPath != "" {
		c.Download.Path = ValidateDownloadPath(s.DownloadPath)
	}
	return nil
}

// ValidateSpotify checks that the catalog credentials are present.
func (c *Config) ValidateSpotify() error {
	var missingFields []string

	if c.Spotify.ClientID == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_ID")
	}
	if c.Spotify.ClientSecret == "" {
		missingFields = append(missingFields, "SPOTIFY_CLIENT_SECRET")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration values:\n%s\n\nSet these values via environment variables, a .env file, or 'wave credentials'", strings.Join(missingFields, "\n"))
	}

	return nil
}

// SaveCredentials persists the Spotify client credentials to the stored
// .env file so later runs pick them up.
func SaveCredentials(clientID, clientSecret string) error {
	path, err := credentialsPath()
	if err != nil {
		return err
	}

	env := map[string]string{
		"SPOTIFY_CLIENT_ID":     clientID,
		"SPOTIFY_CLIENT_SECRET": clientSecret,
	}
	if err := godotenv.Write(env, path); err != nil {
		return fmt.Errorf("failed to write credentials file: %w", err)
	}
	return nil
}

// SetDownloadPath validates and persists a new download directory, returning
// the path that was stored.
func SetDownloadPath(path string) (string, error) {
	settingsFile, err := settingsPath()
	if err != nil {
		return "", err
	}
	if _, err := ensureSettingsFile(settingsFile); err != nil {
		return "", err
	}

	resolved := ValidateDownloadPath(path)
	if err := writeSettingsFile(settingsFile, settings{DownloadPath: resolved}); err != nil {
		return "", err
	}
	return resolved, nil
}

// GetDownloadPath returns the currently stored download directory.
func GetDownloadPath() (string, error) {
	path, err := settingsPath()
	if err != nil {
		return "", err
	}
	s, err := ensureSettingsFile(path)
	if err != nil {
		return "", err
	}
	return ValidateDownloadPath(s.DownloadPath), nil
}

// invalidPathChars are characters that cannot appear in a download path.
var invalidPathChars = regexp.MustCompile(`[<>:"|?*]`)

// ValidateDownloadPath normalizes a user-supplied download directory:
// paths containing invalid characters fall back to the default, and
// relative paths are resolved against the home directory.
func ValidateDownloadPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || invalidPathChars.MatchString(path) {
		return defaultDownloadPath()
	}

	if !filepath.IsAbs(path) {
		home, err := os.UserHomeDir()
		if err != nil {
			return defaultDownloadPath()
		}
		path = filepath.Join(home, path)
	}

	return filepath.Clean(path)
}

func defaultDownloadPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "Downloads"
	}
	return filepath.Join(home, "Downloads")
}

// configDir returns (and creates) the per-user configuration directory.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	return dir, nil
}

func settingsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, settingsName), nil
}

func credentialsPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, credentialsName), nil
}

// ensureSettingsFile reads the settings file, rewriting it with defaults
// when it is missing or contains invalid JSON.
func ensureSettingsFile(path string) (settings, error) {
	defaults := settings{DownloadPath: defaultDownloadPath()}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return settings{}, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := writeSettingsFile(path, defaults); err != nil {
			return settings{}, err
		}
		return defaults, nil
	}

	var s settings
	if err := json.Unmarshal(data, &s); err != nil {
		if err := writeSettingsFile(path, defaults); err != nil {
			return settings{}, err
		}
		return defaults, nil
	}

	if s.DownloadPath == "" {
		s.DownloadPath = defaults.DownloadPath
	}
	return s, nil
}

func writeSettingsFile(path string, s settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	return nil
}
