package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/sunburst/pkg/cache"
)

func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or empty the local layout and render cache",
	}
	cmd.AddCommand(
		c.cacheSubcommand("path", "Print the cache directory", false, cachePath),
		c.cacheSubcommand("stats", "Count cached layouts and artifacts", true, cacheStats),
		c.cacheSubcommand("prune", "Remove expired entries", true, cachePrune),
		c.cacheSubcommand("clear", "Remove every cached entry", true, cacheClear),
	)
	return cmd
}

// cacheSubcommand builds a subcommand that runs fn against the local file
// cache. When open is false fn receives a nil cache. An absent cache
// directory is reported instead of created.
func (c *CLI) cacheSubcommand(use, short string, open bool, fn func(*cobra.Command, string, *cache.FileCache) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := cacheDir()
			if err != nil {
				return fmt.Errorf("locate cache dir: %w", err)
			}
			if !open {
				return fn(cmd, dir, nil)
			}
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("No cache at %s", dir)
				return nil
			}
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return err
			}
			return fn(cmd, dir, fc)
		},
	}
}

func cachePath(cmd *cobra.Command, dir string, _ *cache.FileCache) error {
	fmt.Fprintln(cmd.OutOrStdout(), dir)
	return nil
}

func cacheStats(cmd *cobra.Command, dir string, fc *cache.FileCache) error {
	s, err := fc.Stats()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "entries    %d\n", s.Entries)
	fmt.Fprintf(out, "layouts    %d\n", s.Layouts)
	fmt.Fprintf(out, "artifacts  %d\n", s.Artifacts)
	fmt.Fprintf(out, "expired    %d\n", s.Expired)
	fmt.Fprintf(out, "size       %s\n", formatBytes(s.Bytes))
	return nil
}

func cachePrune(cmd *cobra.Command, dir string, fc *cache.FileCache) error {
	n, err := fc.Prune()
	if err != nil {
		return err
	}
	printSuccess("Pruned %d expired entries", n)
	return nil
}

func cacheClear(cmd *cobra.Command, dir string, fc *cache.FileCache) error {
	n, err := fc.Clear()
	if err != nil {
		return err
	}
	printSuccess("Cleared %d cached entries", n)
	printDetail("Directory: %s", fc.Dir())
	return nil
}

func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
