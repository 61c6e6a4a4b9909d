package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodetree/pkg/config"
	apperrors "github.com/matzehuels/nodetree/pkg/errors"
)

// configCommand creates the config command for managing the config file.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the nodetree config file",
		Long: `Manage the nodetree config file.

The config file is TOML with [layout], [editor], [server] and [cache]
sections.
Without --config it is read from $XDG_CONFIG_HOME/nodetree/config.toml
(~/.config/nodetree/config.toml) when that file exists.`,
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPathOrDefault()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); err == nil && !force {
				return apperrors.New(apperrors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			printSuccess("Wrote %s", path)
			printNextStep("Point the editor at a data set", "nodetree edit --data examples/data.yaml")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing file")
	return cmd
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			source := cfg.Path
			if source == "" {
				source = "(defaults)"
			}
			fmt.Println(StyleTitle.Render("nodetree config") + " " + StyleDim.Render(source))

			l := cfg.Layout
			printKeyValue("sibling_step", formatFloat(l.SiblingStep))
			printKeyValue("child_step", formatFloat(l.ChildStep))
			printKeyValue("level_step", formatFloat(l.LevelStep))
			printKeyValue("layer_spacing", formatFloat(l.LayerSpacing))
			printKeyValue("node_spacing", formatFloat(l.NodeSpacing))
			printKeyValue("fit_delay", l.FitDelay.String())
			printKeyValue("fit_duration", l.FitDuration.String())

			e := cfg.Editor
			printKeyValue("mode", e.Mode)
			printKeyValue("selection", e.Selection)
			printKeyValue("layer_count", StyleNumber.Render(strconv.Itoa(e.LayerCount)))
			printKeyValue("child_node_count", StyleNumber.Render(strconv.Itoa(e.ChildNodeCount)))
			data := e.Data
			if data == "" {
				data = StyleWarning.Render("(none)")
			}
			printKeyValue("data", data)

			printKeyValue("addr", cfg.Server.Addr)

			cacheDir, err := cfg.CacheDir()
			if err != nil {
				cacheDir = StyleWarning.Render(err.Error())
			}
			printKeyValue("cache_dir", cacheDir)
			redisAddr := cfg.Cache.Redis
			if redisAddr == "" {
				redisAddr = StyleDim.Render("(none)")
			}
			printKeyValue("cache_redis", redisAddr)
			printKeyValue("cache_ttl", cfg.Cache.TTL.String())
			return nil
		},
	}
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.configPathOrDefault()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func formatFloat(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
