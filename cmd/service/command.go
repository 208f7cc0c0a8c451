package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/breeew/peer-api/internal/core"
	"github.com/breeew/peer-api/internal/logic/v1/process"
	"github.com/breeew/peer-api/internal/plugins"
	"github.com/breeew/peer-api/internal/store/sqlstore"
)

type Options struct {
	ConfigPath string
	Mode       string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "init api by given config, read PEER_API_* env when empty")
	flagSet.StringVarP(&o.Mode, "mode", "m", "selfhost", "deployment mode, selfhost or cluster")
}

func (o *Options) loadConfig() core.CoreConfig {
	if o.ConfigPath == "" {
		return core.LoadBaseConfigFromENV()
	}
	return core.MustLoadBaseConfig(o.ConfigPath)
}

func NewCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "service",
		Short: "peer review service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Run(opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func NewInstallCommand() *cobra.Command {
	opts := &Options{}
	cmd := &cobra.Command{
		Use:   "install",
		Short: "create the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			return Install(cmd.Context(), opts)
		},
	}
	opts.AddFlags(cmd.Flags())
	return cmd
}

func Run(opts *Options) error {
	app := core.MustSetupCore(opts.loadConfig())
	plugins.Setup(app.InstallPlugins, opts.Mode)

	p := process.NewProcess(app)
	p.Start()
	defer p.Stop()

	return serve(app)
}

func Install(ctx context.Context, opts *Options) error {
	core.MustSetupCore(opts.loadConfig())

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()

	if err := sqlstore.GetProvider().Install(ctx); err != nil {
		return err
	}
	slog.Info("schema installed", slog.String("component", "service.Install"))
	return nil
}
