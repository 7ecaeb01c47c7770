package main

import (
	"github.com/hochfrequenz/appcenter-builds/internal/buildconfig"
	"github.com/spf13/cobra"
)

func newPrintCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "print",
		Short: "Print the last build of every branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			return s.runner.Print(s.ctx)
		},
	}
}

func newStartBuildAllCmd(flags *globalFlags) *cobra.Command {
	var configFile string

	c := &cobra.Command{
		Use:     "start_build_all",
		Aliases: []string{"start_build"},
		Short:   "Attach a build config where missing and start a build on every branch",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			path := s.cfg.Build.ConfigFile
			if cmd.Flags().Changed("config_file") {
				path = configFile
			}
			_, err = s.runner.StartBuildAll(s.ctx, path)
			return err
		},
	}
	c.Flags().StringVar(&configFile, "config_file", buildconfig.DefaultPath, "JSON or YAML build config file")
	return c
}

func newUpdateConfigCmd(flags *globalFlags) *cobra.Command {
	var (
		branch     string
		configFile string
	)

	c := &cobra.Command{
		Use:   "update_config",
		Short: "Replace the build config of one branch",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := setup(cmd, flags)
			if err != nil {
				return err
			}
			path := s.cfg.Build.ConfigFile
			if cmd.Flags().Changed("config_file") {
				path = configFile
			}
			return s.runner.UpdateConfig(s.ctx, branch, path)
		},
	}
	c.Flags().StringVar(&branch, "branch", "", "branch name")
	c.Flags().StringVar(&configFile, "config_file", buildconfig.DefaultPath, "JSON or YAML build config file")
	cobra.CheckErr(c.MarkFlagRequired("branch"))
	return c
}
