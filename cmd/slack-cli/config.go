package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/chrisedwards/slack-cli/internal/clierr"
	"github.com/chrisedwards/slack-cli/internal/config"
	"github.com/chrisedwards/slack-cli/internal/profile"
)

var configToken string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage workspace profiles",
	Long: `Manage the stored workspace tokens.

Each profile holds one token, encrypted at rest. Commands use the current
profile unless --profile is given.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store a token for a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if strings.TrimSpace(configToken) == "" {
			return clierr.Validationf("--token is required")
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		name, err := a.store.SetToken(strings.TrimSpace(configToken), profileName)
		if err != nil {
			return err
		}
		a.renderer().Success("Token saved for profile %q", name)
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show a profile's configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		name := profileName
		if name == "" {
			if name, err = a.store.GetCurrent(); err != nil {
				return err
			}
		}
		p, err := a.store.GetProfile(name)
		if errors.Is(err, clierr.ErrProfileNotFound) {
			return clierr.NoConfig(name)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Profile: %s\n", name)
		fmt.Fprintf(a.out, "Token: %s\n", profile.MaskToken(p.Token))
		fmt.Fprintf(a.out, "Updated: %s\n", p.UpdatedAt)
		return nil
	},
}

var configProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		names, err := a.store.ListProfileNames()
		if err != nil {
			return err
		}
		if len(names) == 0 {
			a.renderer().Notice("No profiles found. Use \"slack-cli config set --token <token>\" to add one.")
			return nil
		}
		current, err := a.store.GetCurrent()
		if err != nil {
			return err
		}
		for _, name := range names {
			p, err := a.store.GetProfile(name)
			if err != nil {
				return err
			}
			marker := "  "
			if name == current {
				marker = color.GreenString("* ")
			}
			fmt.Fprintf(a.out, "%s%s (%s)\n", marker, name, profile.MaskToken(p.Token))
		}
		return nil
	},
}

var configUseCmd = &cobra.Command{
	Use:   "use <profile>",
	Short: "Switch the current profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := a.store.SetCurrent(args[0]); err != nil {
			return err
		}
		a.renderer().Success("Switched to profile %q", args[0])
		return nil
	},
}

var configCurrentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		name, err := a.store.GetCurrent()
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, name)
		return nil
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove a profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		name, err := a.store.Clear(profileName)
		if err != nil {
			return err
		}
		a.renderer().Success("Profile %q cleared", name)
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show where settings and profiles are stored",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		settings := a.cfg.ConfigFile()
		if settings == "" {
			settings = config.DefaultConfigPath() + " (not present)"
		}
		fmt.Fprintf(a.out, "Settings: %s\n", settings)
		fmt.Fprintf(a.out, "Profiles: %s\n", a.store.Path())
		return nil
	},
}

func init() {
	configSetCmd.Flags().StringVar(&configToken, "token", "", "Slack API token (required)")

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configProfilesCmd)
	configCmd.AddCommand(configUseCmd)
	configCmd.AddCommand(configCurrentCmd)
	configCmd.AddCommand(configClearCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}
