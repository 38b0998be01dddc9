package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matsen/paperview/internal/config"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "Get or set configuration values",
	Long: `Get or set values in the global config file.

Usage:
  pview config                               # Show all config
  pview config data-path                     # Get specific value
  pview config data-path ~/cord19/metadata.csv  # Set value

Keys:
  data-path     Path to the CORD-19 metadata file
  top-journals  Number of journals ranked (default 10)
  sample-size   Number of papers sampled (default 5)
  listen-addr   Address for 'pview serve' (default 127.0.0.1:8501)
  rate-limit    Dashboard requests per second (default 20)
  rate-burst    Dashboard request burst (default 40)`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

// configKeys lists the keys accepted by the config command, in display order.
var configKeys = []string{"data-path", "top-journals", "sample-size", "listen-addr", "rate-limit", "rate-burst"}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		exitWithError(ExitConfigError, "loading config: %v", err)
	}

	// No args: show all config
	if len(args) == 0 {
		values := configValues(cfg.WithDefaults())
		if !humanOutput {
			return outputJSON(cfg.WithDefaults())
		}
		for _, key := range configKeys {
			fmt.Printf("%-13s %s\n", key+":", values[key])
		}
		return nil
	}

	key := normalizeKey(args[0])

	// One arg: get specific value
	if len(args) == 1 {
		value, ok := configValues(cfg.WithDefaults())[key]
		if !ok {
			exitWithError(ExitError, "unknown configuration key: %s", args[0])
		}
		if !humanOutput {
			return outputJSON(map[string]string{strings.ReplaceAll(key, "-", "_"): value})
		}
		fmt.Println(value)
		return nil
	}

	// Two args: set value
	value := args[1]
	updated := *cfg
	if err := setConfigValue(&updated, key, value); err != nil {
		exitWithError(ExitConfigError, "%v", err)
	}
	if err := updated.Save(); err != nil {
		exitWithError(ExitError, "saving config: %v", err)
	}

	if humanOutput {
		fmt.Printf("Updated %s to %s\n", key, value)
		return nil
	}
	return outputJSON(UpdateResponse{
		Status: "updated",
		Key:    key,
		Value:  value,
	})
}

// configValues renders every config key as a string.
func configValues(cfg config.GlobalConfig) map[string]string {
	return map[string]string{
		"data-path":    cfg.DataPath,
		"top-journals": strconv.Itoa(cfg.TopJournals),
		"sample-size":  strconv.Itoa(cfg.SampleSize),
		"listen-addr":  cfg.ListenAddr,
		"rate-limit":   strconv.FormatFloat(cfg.RateLimit, 'g', -1, 64),
		"rate-burst":   strconv.Itoa(cfg.RateBurst),
	}
}

// setConfigValue validates value and stores it under key.
func setConfigValue(cfg *config.GlobalConfig, key, value string) error {
	switch key {
	case "data-path":
		path := config.ExpandTilde(value)
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("%w: %s", config.ErrDataPathNotExist, path)
		}
		if info.IsDir() {
			return fmt.Errorf("data_path is a directory: %s", path)
		}
		cfg.DataPath = path
	case "top-journals":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		cfg.TopJournals = n
	case "sample-size":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		cfg.SampleSize = n
	case "listen-addr":
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("listen-addr cannot be empty")
		}
		cfg.ListenAddr = value
	case "rate-limit":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f <= 0 {
			return fmt.Errorf("invalid rate-limit %q: must be a positive number", value)
		}
		cfg.RateLimit = f
	case "rate-burst":
		n, err := positiveInt(key, value)
		if err != nil {
			return err
		}
		cfg.RateBurst = n
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	return nil
}

func positiveInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", key, value)
	}
	return n, nil
}

// normalizeKey converts key formats (data-path, data_path, Data-Path) to consistent format
func normalizeKey(key string) string {
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, "_", "-")
	return key
}
