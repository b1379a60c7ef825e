package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gardar/textalign/pkg/cache"
	"github.com/gardar/textalign/pkg/textalign"
)

func newCacheCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the OCR result cache",
	}
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (YAML or TOML)")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove all cached OCR results",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if cfg.Cache.Backend == textalign.CacheRedis {
				printWarning(out, "Redis entries expire on their own; clear them with redis-cli")
				return nil
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo(out, "Cache is empty")
				return nil
			}
			c, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			n, err := c.Clear()
			if err != nil {
				return err
			}
			printSuccess(out, "Cleared %d cached entries", n)
			printDetail(out, "Directory: %s", dir)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			dir, err := cacheDir(cfg.Cache)
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	})

	return cmd
}
