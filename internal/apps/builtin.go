package apps

import "github.com/1broseidon/progman/internal/geometry"

func size(w, h int) geometry.Size {
	return geometry.Size{Width: w, Height: h}
}

func helpMenu(about string) Menu {
	return Menu{
		Label:       "Help",
		Accelerator: "H",
		Items: []MenuItem{
			Action("Contents", "help", "F1"),
			Action(about, "about", ""),
		},
	}
}

// BuiltinApps returns the built-in application library.
//
// These are always available without a catalog file. A catalog file may add
// applications or replace any of these by id.
func BuiltinApps() []Descriptor {
	return []Descriptor{
		{
			ID:          "program-manager",
			Title:       "Program Manager",
			Icon:        "📁",
			ExeName:     "PROGMAN.EXE",
			DefaultSize: size(700, 500),
			MinSize:     size(300, 200),
			Resizable:   true,
			Menus: []Menu{
				{Label: "File", Accelerator: "F", Items: []MenuItem{
					Action("New...", "new", "Ctrl+N"),
					Action("Open", "open", "Enter"),
					Separator(),
					Action("Exit Windows...", "exit", ""),
				}},
				{Label: "Options", Accelerator: "O", Items: []MenuItem{
					Action("Auto Arrange", "auto-arrange", ""),
					Action("Minimize on Use", "minimize-on-use", ""),
					Separator(),
					Action("Save Settings on Exit", "save-settings", ""),
				}},
				{Label: "Window", Accelerator: "W", Items: []MenuItem{
					Action("Cascade", "cascade", "Shift+F5"),
					Action("Tile", "tile", "Shift+F4"),
					Action("Arrange Icons", "arrange-icons", ""),
				}},
				{Label: "Help", Accelerator: "H", Items: []MenuItem{
					Action("Contents", "help-contents", "F1"),
					Separator(),
					Action("About Program Manager...", "about", ""),
				}},
			},
		},
		{
			ID:          "dageeves",
			Title:       "File Manager",
			Icon:        "🗄️",
			ExeName:     "DAGEEVES.EXE",
			DefaultSize: size(650, 450),
			MinSize:     size(400, 300),
			Resizable:   true,
			Menus: []Menu{
				{Label: "File", Accelerator: "F", Items: []MenuItem{
					Action("New Query...", "new-query", "Ctrl+N"),
					Action("Open...", "open", "Ctrl+O"),
					Separator(),
					Action("Execute", "execute", "F5"),
					Separator(),
					Action("Exit", "close", ""),
				}},
				{Label: "View", Accelerator: "V", Items: []MenuItem{
					Action("Tree Only", "view-tree", ""),
					Action("Directory Only", "view-dir", ""),
					Action("Tree and Directory", "view-both", ""),
					Separator(),
					Action("Refresh", "refresh", "F5"),
				}},
				helpMenu("About..."),
			},
		},
		{
			ID:          "terminal",
			Title:       "MS-DOS Prompt",
			Icon:        "💻",
			ExeName:     "TERMINAL.EXE",
			DefaultSize: size(600, 400),
			MinSize:     size(400, 200),
			Resizable:   true,
			Menus: []Menu{
				{Label: "Edit", Accelerator: "E", Items: []MenuItem{
					Action("Copy", "copy", "Ctrl+C"),
					Action("Paste", "paste", "Ctrl+V"),
					Separator(),
					Action("Select All", "select-all", "Ctrl+A"),
				}},
				{Label: "Settings", Accelerator: "S", Items: []MenuItem{
					Action("Font...", "font", ""),
					Action("Colors...", "colors", ""),
				}},
			},
		},
		{
			ID:          "notepad",
			Title:       "Notepad",
			Icon:        "📝",
			ExeName:     "NOTEPAD.EXE",
			DefaultSize: size(500, 400),
			MinSize:     size(300, 200),
			Resizable:   true,
			Menus: []Menu{
				{Label: "File", Accelerator: "F", Items: []MenuItem{
					Action("New", "new", "Ctrl+N"),
					Action("Open...", "open", "Ctrl+O"),
					Action("Save", "save", "Ctrl+S"),
					Action("Save As...", "save-as", ""),
					Separator(),
					Action("Exit", "close", ""),
				}},
				{Label: "Edit", Accelerator: "E", Items: []MenuItem{
					Action("Undo", "undo", "Ctrl+Z"),
					Separator(),
					Action("Cut", "cut", "Ctrl+X"),
					Action("Copy", "copy", "Ctrl+C"),
					Action("Paste", "paste", "Ctrl+V"),
					Separator(),
					Action("Find...", "find", "Ctrl+F"),
				}},
				helpMenu("About Notepad..."),
			},
		},
		{
			ID:          "clock",
			Title:       "Clock",
			Icon:        "🕐",
			ExeName:     "CLOCK.EXE",
			DefaultSize: size(200, 200),
			MinSize:     size(100, 100),
			Resizable:   true,
			Menus: []Menu{
				{Label: "Settings", Accelerator: "S", Items: []MenuItem{
					Action("Analog", "analog", ""),
					Action("Digital", "digital", ""),
					Separator(),
					Action("Set Date/Time...", "set-time", ""),
				}},
			},
		},
		{
			ID:          "winamp",
			Title:       "Winamp",
			Icon:        "🎵",
			ExeName:     "WINAMP.EXE",
			DefaultSize: size(275, 116),
			MinSize:     size(275, 116),
			Resizable:   false,
		},
		{
			ID:          "skill-viewer",
			Title:       "Skill Viewer",
			Icon:        "📄",
			ExeName:     "SKILLVW.EXE",
			DefaultSize: size(520, 450),
			MinSize:     size(400, 300),
			Resizable:   true,
			Menus: []Menu{
				{Label: "File", Accelerator: "F", Items: []MenuItem{
					Action("Install Skill", "install", "Ctrl+I"),
					Action("Copy Install Command", "copy", "Ctrl+C"),
					Separator(),
					Action("Close", "close", ""),
				}},
				{Label: "Help", Accelerator: "H", Items: []MenuItem{
					Action("About This Skill...", "about", ""),
				}},
			},
		},
		{
			ID:          "solitaire",
			Title:       "Solitaire",
			Icon:        "🃏",
			ExeName:     "SOL.EXE",
			DefaultSize: size(640, 480),
			MinSize:     size(500, 400),
			Resizable:   true,
			Menus: []Menu{
				{Label: "Game", Accelerator: "G", Items: []MenuItem{
					Action("Deal", "deal", "F2"),
					Separator(),
					Action("Undo", "undo", "Ctrl+Z"),
					Separator(),
					Action("Exit", "close", ""),
				}},
				{Label: "Options", Accelerator: "O", Items: []MenuItem{
					Action("Deck...", "deck", ""),
					Action("Scoring...", "scoring", ""),
				}},
				helpMenu("About Solitaire..."),
			},
		},
		{
			ID:          "control-panel",
			Title:       "Control Panel",
			Icon:        "⚙️",
			ExeName:     "CONTROL.EXE",
			DefaultSize: size(400, 350),
			MinSize:     size(300, 250),
			Resizable:   true,
			Menus: []Menu{
				{Label: "Settings", Accelerator: "S", Items: []MenuItem{
					Action("Colors...", "colors", ""),
					Action("Desktop...", "desktop", ""),
					Separator(),
					Action("Exit", "close", ""),
				}},
				helpMenu("About Control Panel..."),
			},
		},
		{
			ID:          "calculator",
			Title:       "Calculator",
			Icon:        "🔢",
			ExeName:     "CALC.EXE",
			DefaultSize: size(260, 320),
			MinSize:     size(200, 260),
			Resizable:   false,
			Menus: []Menu{
				{Label: "Edit", Accelerator: "E", Items: []MenuItem{
					Action("Copy", "copy", "Ctrl+C"),
					Action("Paste", "paste", "Ctrl+V"),
				}},
				{Label: "View", Accelerator: "V", Items: []MenuItem{
					Action("Standard", "standard", ""),
					Action("Scientific", "scientific", ""),
				}},
				helpMenu("About Calculator..."),
			},
		},
	}
}
