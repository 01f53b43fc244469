package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/stackcraft/stackcraft"
	"github.com/stackcraft/stackcraft/content"
)

// configKeys are the SiteConfig keys that may also come from the
// environment as STACKCRAFT_<KEY>.
var configKeys = []string{
	"name", "url", "tagline", "description", "language",
	"feed_title", "feed_creator", "feed_editor", "feed_ttl", "feed_categories",
	"copyright", "social_image", "social_image_title",
	"addr", "output_dir", "static_dir",
	"newsletter_max", "newsletter_window",
	"log_level",
}

// cli holds what the persistent flags and the config file resolve to.
type cli struct {
	cfgFile    string
	contentDir string

	cfg    stackcraft.SiteConfig
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "stackcraft",
		Short:         "StackCraft site builder and server",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.initConfig()
		},
	}
	root.PersistentFlags().StringVar(&c.cfgFile, "config", "", "config file (default is ./stackcraft.yaml)")
	root.PersistentFlags().StringVar(&c.contentDir, "content", "", "content directory (default is the embedded content)")

	root.AddCommand(c.newBuildCmd(), c.newServeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the stackcraft version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stackcraft %s\n", version)
		},
	}
}

func (c *cli) initConfig() error {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("log_level", "info")

	if c.cfgFile != "" {
		v.SetConfigFile(c.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("stackcraft")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("STACKCRAFT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for _, key := range configKeys {
		if err := v.BindEnv(key); err != nil {
			return fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || c.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	if err := v.Unmarshal(&c.cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := c.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	level, err := parseLevel(v.GetString("log_level"))
	if err != nil {
		return err
	}
	c.logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if used := v.ConfigFileUsed(); used != "" {
		c.logger.Debug("using config file", "path", used)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", s, err)
	}
	return level, nil
}

// loadContent reads the registry from --content when given, else from the
// embedded tree.
func (c *cli) loadContent() (*content.Registry, error) {
	if c.contentDir == "" {
		return content.Load()
	}
	return content.LoadFS(os.DirFS(c.contentDir))
}
