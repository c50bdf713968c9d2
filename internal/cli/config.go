// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jeranaias/threadchat/internal/config"
)

func newConfigCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or change the configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showConfig(opts)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting (e.g. storage.backend)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			return outputJSON(opts.out, opts.jsonOut, "config get", func() (interface{}, error) {
				v, err := cfg.Get(args[0])
				if err != nil {
					return nil, err
				}
				if !opts.jsonOut {
					fmt.Fprintln(opts.out, v)
				}
				return map[string]interface{}{args[0]: v}, nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting and save the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfig(opts, args[0], args[1])
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(opts, force)
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	cmd.AddCommand(initCmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config, data and log locations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return showPaths(opts)
		},
	})
	return cmd
}

// configPath is --config or the default TOML location.
func configPath(opts *globalOptions) (string, error) {
	if opts.configPath != "" {
		return opts.configPath, nil
	}
	return config.ConfigPathTOML()
}

func saveConfigTo(cfg *config.Config, path string) error {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}

func showConfig(opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return outputJSON(opts.out, opts.jsonOut, "config show", func() (interface{}, error) {
		if !opts.jsonOut {
			for _, key := range config.GetAllKeys() {
				if key == "version" {
					continue
				}
				v, err := cfg.Get(key)
				if err != nil {
					continue
				}
				if key == "endpoint.url" {
					v = redactURL(fmt.Sprint(v))
				}
				fmt.Fprintf(opts.out, "%s %v\n", RenderLabel(key), v)
			}
		}
		// String already redacts credentials.
		return json.RawMessage(cfg.String()), nil
	})
}

func setConfig(opts *globalOptions, key, value string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if err := saveConfigTo(cfg, path); err != nil {
		return err
	}
	return outputJSON(opts.out, opts.jsonOut, "config set", func() (interface{}, error) {
		if !opts.jsonOut {
			fmt.Fprintf(opts.out, "%s %s = %s\n", SuccessStyle.Render("Saved"), key, value)
		}
		return map[string]string{"key": key, "value": value, "path": path}, nil
	})
}

func initConfig(opts *globalOptions, force bool) error {
	path, err := configPath(opts)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := saveConfigTo(config.Default(), path); err != nil {
		return err
	}
	return outputJSON(opts.out, opts.jsonOut, "config init", func() (interface{}, error) {
		if !opts.jsonOut {
			fmt.Fprintf(opts.out, "%s %s\n", SuccessStyle.Render("Wrote"), path)
		}
		return map[string]string{"path": path}, nil
	})
}

func showPaths(opts *globalOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	return outputJSON(opts.out, opts.jsonOut, "config path", func() (interface{}, error) {
		cfgPath, err := configPath(opts)
		if err != nil {
			return nil, err
		}
		dataPath, err := cfg.StoragePath()
		if err != nil {
			return nil, err
		}
		logPath, err := cfg.LogPath()
		if err != nil {
			return nil, err
		}
		paths := map[string]string{"config": cfgPath, "data": dataPath, "log": logPath}
		if !opts.jsonOut {
			for _, k := range []string{"config", "data", "log"} {
				fmt.Fprintf(opts.out, "%s %s\n", RenderLabel(k), paths[k])
			}
		}
		return paths, nil
	})
}

// redactURL hides credentials embedded in a URL.
// SECURITY: endpoint URLs may carry basic-auth user info.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	u.User = url.User("REDACTED")
	return u.String()
}
