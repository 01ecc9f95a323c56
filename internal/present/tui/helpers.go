package tui

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/mithrel/mdnote/internal/export"
	"github.com/mithrel/mdnote/internal/logging"
	"github.com/mithrel/mdnote/internal/notes"
	"github.com/mithrel/mdnote/internal/present/format"
	"github.com/mithrel/mdnote/internal/render"
)

// Deps are the services the TUI talks to.
type Deps struct {
	Notes    *notes.Service
	Exporter *export.Exporter
	Renderer *render.Renderer
	Pretty   format.Pretty
	// ExportFormat is preselected in the export prompt.
	ExportFormat export.Format
	Now          func() time.Time
	Log          *log.Logger
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) logger() *log.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logging.Discard()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
