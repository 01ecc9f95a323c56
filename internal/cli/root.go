package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mdnote/internal/config"
	"github.com/mithrel/mdnote/internal/wire"
)

type ctxKey string

const (
	appKey ctxKey = "app"
	cfgKey ctxKey = "cfg"
)

// noAppAnnotation marks commands that only need the config, not the store.
const noAppAnnotation = "mdnote/no-app"

// Execute builds the root command, runs it and releases the app afterwards.
func Execute() error {
	cmd, s := newRootCmd()
	err := cmd.Execute()
	if cerr := s.close(); err == nil {
		err = cerr
	}
	return err
}

// NewRootCmd constructs the Cobra root command and wires dependencies.
func NewRootCmd() *cobra.Command {
	cmd, _ := newRootCmd()
	return cmd
}

// session owns the App built for one invocation.
type session struct {
	app *wire.App
}

func (s *session) close() error {
	if s.app == nil {
		return nil
	}
	err := s.app.Close()
	s.app = nil
	return err
}

func newRootCmd() (*cobra.Command, *session) {
	var cfgPath string
	var sets []string
	s := &session{}

	cmd := &cobra.Command{
		Use:           "mdnote",
		Short:         "mdnote: Markdown notes with HTML preview and export",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			if cfgPath != "" {
				v.SetConfigFile(cfgPath)
			}
			if err := config.Load(cmd.Context(), v); err != nil {
				return err
			}
			if err := applySetOverrides(v, sets); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagKeys)

			ctx := context.WithValue(cmd.Context(), cfgKey, v)
			if skipsApp(cmd) {
				cmd.SetContext(ctx)
				return nil
			}
			app, err := wire.BuildApp(ctx, v)
			if err != nil {
				return err
			}
			s.app = app
			cmd.SetContext(context.WithValue(ctx, appKey, app))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return s.close()
		},
	}

	cmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to config file (toml)")
	cmd.PersistentFlags().StringArrayVar(&sets, "set", nil, "override a config key, e.g. --set render.gfm_refs=true (repeatable)")
	cmd.PersistentFlags().String("log-level", "", "log level: debug|info|warn|error")
	_ = cmd.RegisterFlagCompletionFunc("set", completeConfigKeys)
	_ = cmd.RegisterFlagCompletionFunc("log-level", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp
	})

	cmd.AddCommand(newNoteCmd())
	cmd.AddCommand(newRenderCmd())
	cmd.AddCommand(newPreviewCmd())
	cmd.AddCommand(newImportCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newCompletionCmd())

	cmd.Run = func(cmd *cobra.Command, args []string) { _ = cmd.Help() }

	return cmd, s
}

// skipsApp reports whether cmd or one of its parents opted out of BuildApp.
func skipsApp(cmd *cobra.Command) bool {
	// Completion requests build their own app from the parsed target flags.
	if n := cmd.Name(); n == cobra.ShellCompRequestCmd || n == cobra.ShellCompNoDescRequestCmd {
		return true
	}
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[noAppAnnotation] == "true" {
			return true
		}
	}
	return false
}

func getApp(cmd *cobra.Command) *wire.App {
	v := cmd.Context().Value(appKey)
	if v == nil {
		fmt.Fprintln(os.Stderr, "internal error: app not initialized")
		os.Exit(1)
	}
	return v.(*wire.App)
}

func getConfig(cmd *cobra.Command) *viper.Viper {
	if v, ok := cmd.Context().Value(cfgKey).(*viper.Viper); ok {
		return v
	}
	return viper.New()
}
