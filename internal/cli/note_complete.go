package cli

import (
	"context"
	"slices"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mithrel/mdnote/internal/config"
	"github.com/mithrel/mdnote/internal/util"
	"github.com/mithrel/mdnote/internal/wire"
	"github.com/mithrel/mdnote/pkg/api"
)

const maxIDCompletions = 20

// completeNoteIDs fuzzy-matches toComplete against "id title" and offers
// ids with the title as description.
func completeNoteIDs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	app, done, err := completionApp(cmd)
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer done()

	list, err := app.Notes.All(completionContext(cmd), api.ListQuery{})
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	byKey := make(map[string]api.Note, len(list))
	keys := make([]string, 0, len(list))
	for _, n := range list {
		if slices.Contains(args, n.ID) {
			continue
		}
		key := n.ID + " " + n.Title()
		byKey[key] = n
		keys = append(keys, key)
	}
	matches := util.ScoreCompletions(toComplete, keys, maxIDCompletions)
	out := make([]string, 0, len(matches))
	for _, k := range matches {
		n := byKey[k]
		out = append(out, n.ID+"\t"+n.Title())
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

// completionApp returns the App from the context, or builds a short-lived
// one. Completion runs without the root PersistentPreRunE.
func completionApp(cmd *cobra.Command) (*wire.App, func(), error) {
	ctx := completionContext(cmd)
	if app, ok := ctx.Value(appKey).(*wire.App); ok {
		return app, func() {}, nil
	}
	v := viper.New()
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		v.SetConfigFile(p)
	}
	if err := config.Load(ctx, v); err != nil {
		return nil, nil, err
	}
	if sets, err := cmd.Flags().GetStringArray("set"); err == nil {
		if err := applySetOverrides(v, sets); err != nil {
			return nil, nil, err
		}
	}
	app, err := wire.BuildApp(ctx, v)
	if err != nil {
		return nil, nil, err
	}
	return app, func() { _ = app.Close() }, nil
}

func completionContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
