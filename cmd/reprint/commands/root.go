// Package commands implements the CLI commands for reprint.
package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/reprint/internal/cache"
	"github.com/jmylchreest/reprint/internal/logger"
	"github.com/jmylchreest/reprint/internal/version"
)

var rootCmd = &cobra.Command{
	Use:     "reprint",
	Short:   "Republish archived articles as styled documents",
	Version: version.String(),
	Long: `Reprint converts an HTML article into a style-anchored rich-text
document, normalises it, and renders it for a destination: a Google Docs
batch update, WordPress block markup, plain text, or a dump of its runs.

Examples:
  # Convert a marxists.org article to plain text
  reprint convert -u "https://www.marxists.org/archive/connolly/1908/06/harpb.htm"

  # Render for several destinations into a directory
  reprint convert -u "https://example.com/article.htm" --to wp --to docs -o out/

  # Publish a draft post using the wordpress settings in ~/.reprint.yaml
  reprint convert -f article.html --to wordpress --publish`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(logger.Options{
			Debug: viper.GetBool("debug"),
			Quiet: viper.GetBool("quiet"),
			JSON:  viper.GetBool("log_json"),
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.reprint.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")
	rootCmd.PersistentFlags().Bool("log-json", false, "write logs as JSON")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("log_json", rootCmd.PersistentFlags().Lookup("log-json"))
}

// envKeys maps nested config keys to environment variable names.
var envKeys = strings.NewReplacer(".", "_", "-", "_")

func initConfig() {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".reprint")
		viper.SetConfigType("yaml")
	}

	// Environment variables, e.g. REPRINT_WORDPRESS_PASSWORD
	viper.SetEnvPrefix("REPRINT")
	viper.SetEnvKeyReplacer(envKeys)
	viper.AutomaticEnv()

	viper.SetDefault("cache.path", defaultDataPath(cache.DefaultFile))
	viper.SetDefault("cache.max_age", "720h")
	viper.SetDefault("wordpress.timeout", "30s")
	viper.SetDefault("docs.client_secret", defaultDataPath("client_secret.json"))
	viper.SetDefault("docs.token_file", defaultDataPath("docs_token.json"))

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// defaultDataPath returns name under the user config directory.
func defaultDataPath(name string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "reprint", name)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logInfo prints an info message to stderr (unless quiet mode).
func logInfo(format string, args ...any) {
	if !viper.GetBool("quiet") {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}
