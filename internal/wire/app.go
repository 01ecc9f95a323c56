package wire

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/viper"

	"github.com/mithrel/mdnote/internal/config"
	"github.com/mithrel/mdnote/internal/db"
	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/logging"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/render"
)

// App aggregates the major services for easy injection.
type App struct {
	Cfg       *viper.Viper
	Log       *log.Logger
	Store     db.Store
	Renderer  *render.Renderer
	Formatter *export.Formatter
	Exporter  *export.Exporter
	Notes     *notes.Service

	closeLog func() error
}

// BuildApp wires dependencies from a loaded config.
func BuildApp(ctx context.Context, v *viper.Viper) (*App, error) {
	logger, closeLog, err := logging.Open(config.ExpandPath(v.GetString("log.file")), v.GetString("log.level"))
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}

	dsn := v.GetString("db_url")
	if dsn == "" {
		dsn = "sqlite://" + config.ResolveDBPath(v)
	}
	store, err := db.Open(ctx, dsn)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open store: %w", err)
	}

	r := render.New(render.Options{
		GFMRefs:   v.GetBool("render.gfm_refs"),
		IssuesURL: v.GetString("render.issues_url"),
		UsersURL:  v.GetString("render.users_url"),
		Logger:    logger,
	})
	conv := export.NewFormatter(r)
	exp := export.NewExporter(conv, config.ResolveExportDir(v),
		export.WithOverwrite(v.GetBool("export.overwrite")),
		export.WithLogger(logger),
	)
	svc := notes.NewService(store,
		notes.WithDeleteEmpty(v.GetBool("editor.delete_empty")),
		notes.WithLogger(logger),
	)
	logger.Debug("app ready", "store", dsn)

	return &App{
		Cfg:       v,
		Log:       logger,
		Store:     store,
		Renderer:  r,
		Formatter: conv,
		Exporter:  exp,
		Notes:     svc,
		closeLog:  closeLog,
	}, nil
}

// Close releases the store and the log file.
func (a *App) Close() error {
	err := a.Store.Close()
	if a.closeLog != nil {
		if cerr := a.closeLog(); err == nil {
			err = cerr
		}
	}
	return err
}
