package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hochfrequenz/appcenter-builds/internal/appcenter"
	"github.com/hochfrequenz/appcenter-builds/internal/config"
	"github.com/hochfrequenz/appcenter-builds/internal/ctxlog"
	"github.com/hochfrequenz/appcenter-builds/internal/notify"
	"github.com/hochfrequenz/appcenter-builds/internal/runner"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand
type globalFlags struct {
	configPath      string
	token           string
	appName         string
	ownerName       string
	includeInactive bool
	verbose         bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "appcenter-builds",
		Short: "Configure and start App Center builds for every branch of an app",
		Long: `appcenter-builds starts a build on every branch of an App Center app,
attaching a build configuration to branches that have none, and prints
the status of the last build of each branch.

  appcenter-builds print --app_name APP --owner_name OWNER --token TOKEN
  appcenter-builds start_build_all --app_name APP --owner_name OWNER \
      --token TOKEN --config_file ./build_config.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "settings file path")
	pf.StringVar(&flags.token, "token", "", "API token with full access")
	pf.StringVar(&flags.appName, "app_name", "", "app name")
	pf.StringVar(&flags.ownerName, "owner_name", "", "owner (user or organization) name")
	pf.BoolVar(&flags.includeInactive, "include_inactive", true, "include inactive branches")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(newPrintCmd(flags))
	root.AddCommand(newStartBuildAllCmd(flags))
	root.AddCommand(newUpdateConfigCmd(flags))

	return root
}

// session is everything a subcommand needs after flags and settings
// have been merged.
type session struct {
	cfg    *config.Config
	runner *runner.Runner
	ctx    context.Context
}

// setup loads settings, lets explicitly set flags override them, and
// builds the client, logger and runner.
func setup(cmd *cobra.Command, flags *globalFlags) (*session, error) {
	cfg, err := config.LoadWithLocalFallback(flags.configPath)
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}

	pf := cmd.Flags()
	if pf.Changed("token") {
		cfg.AppCenter.Token = flags.token
	}
	if pf.Changed("app_name") {
		cfg.AppCenter.AppName = flags.appName
	}
	if pf.Changed("owner_name") {
		cfg.AppCenter.OwnerName = flags.ownerName
	}
	if pf.Changed("include_inactive") {
		cfg.AppCenter.IncludeInactive = flags.includeInactive
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}

	if err := requireSet(map[string]string{
		"token":      cfg.AppCenter.Token,
		"app_name":   cfg.AppCenter.AppName,
		"owner_name": cfg.AppCenter.OwnerName,
	}); err != nil {
		return nil, err
	}

	logger := ctxlog.New(cmd.ErrOrStderr(), cfg.Log.Level).With("run_id", uuid.NewString())
	ctx := ctxlog.WithLogger(cmd.Context(), logger)

	client, err := appcenter.NewClient(appcenter.ClientConfig{
		Token:   cfg.AppCenter.Token,
		APIURL:  cfg.AppCenter.APIURL,
		WebURL:  cfg.AppCenter.WebURL,
		Timeout: cfg.AppCenter.RequestTimeout.Duration,
	})
	if err != nil {
		return nil, err
	}

	r := runner.New(client, runner.Options{
		App:             appcenter.App{Owner: cfg.AppCenter.OwnerName, Name: cfg.AppCenter.AppName},
		IncludeInactive: cfg.AppCenter.IncludeInactive,
		Out:             cmd.OutOrStdout(),
		Notifier:        newNotifier(cfg.Notifications),
	})

	return &session{cfg: cfg, runner: r, ctx: ctx}, nil
}

// requireSet fails on the first empty value, in flag name order
func requireSet(values map[string]string) error {
	for _, name := range []string{"token", "app_name", "owner_name"} {
		if v, ok := values[name]; ok && v == "" {
			return fmt.Errorf("required flag %q not set (pass --%s or set it in the settings file)", name, name)
		}
	}
	return nil
}

func newNotifier(cfg config.NotificationsConfig) notify.Notifier {
	var notifiers []notify.Notifier
	if cfg.SlackWebhook != "" {
		notifiers = append(notifiers, notify.NewSlackNotifier(cfg.SlackWebhook))
	}
	if cfg.Desktop {
		notifiers = append(notifiers, notify.NewDesktopNotifier(true))
	}
	if len(notifiers) == 0 {
		return notify.NoopNotifier{}
	}
	return notify.NewMultiNotifier(notifiers...)
}
