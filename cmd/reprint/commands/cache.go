package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jmylchreest/reprint/internal/cache"
)

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or prune the page cache",
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the cache location and size",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := cache.Open(viper.GetString("cache.path"))
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		n, err := c.Len(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d pages\n", c.Path(), n)
		return nil
	},
}

var cachePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove cached pages older than --older-than (default: cache.max_age)",
	RunE: func(cmd *cobra.Command, args []string) error {
		age, _ := cmd.Flags().GetDuration("older-than")
		if !cmd.Flags().Changed("older-than") {
			age = viper.GetDuration("cache.max_age")
		}

		c, err := cache.Open(viper.GetString("cache.path"))
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		n, err := c.Prune(cmd.Context(), time.Now().Add(-age))
		if err != nil {
			return err
		}
		logInfo("Pruned %d pages from %s", n, c.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd, cachePruneCmd)
	cachePruneCmd.Flags().Duration("older-than", 0, "remove pages stored before this age (0 removes everything)")
}
