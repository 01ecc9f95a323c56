package tui

// ScreenMode is the layout of the live-preview editor.
type ScreenMode int

const (
	// ScreenEdit shows only the text area.
	ScreenEdit ScreenMode = iota
	// ScreenSeparate shows the text area and preview side by side.
	ScreenSeparate
	// ScreenView shows only the preview.
	ScreenView
)

func (s ScreenMode) String() string {
	switch s {
	case ScreenEdit:
		return "EDIT"
	case ScreenSeparate:
		return "SEPARATE"
	case ScreenView:
		return "VIEW"
	}
	return "UNKNOWN"
}

// Next cycles EDIT, SEPARATE, VIEW.
func (s ScreenMode) Next() ScreenMode { return (s + 1) % 3 }

func (s ScreenMode) showsEditor() bool  { return s != ScreenView }
func (s ScreenMode) showsPreview() bool { return s != ScreenEdit }
