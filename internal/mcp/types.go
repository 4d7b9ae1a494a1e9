package mcp

// WindowInput addresses one window.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Instance id of the window, as returned by launch_app or list_windows"`
}

// LaunchAppInput is the input for the launch_app tool.
type LaunchAppInput struct {
	AppID  string `json:"app_id" jsonschema:"Application id from list_apps (e.g. notepad, clock)"`
	Title  string `json:"title,omitempty" jsonschema:"Optional window title overriding the application title"`
	X      *int   `json:"x,omitempty" jsonschema:"Optional left edge; requires y"`
	Y      *int   `json:"y,omitempty" jsonschema:"Optional top edge; requires x"`
	Width  *int   `json:"width,omitempty" jsonschema:"Optional width; requires height. Raised to the app minimum"`
	Height *int   `json:"height,omitempty" jsonschema:"Optional height; requires width. Raised to the app minimum"`
}

// MoveWindowInput is the input for the move_window tool.
type MoveWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Instance id of the window"`
	X        int    `json:"x" jsonschema:"New left edge in pixels"`
	Y        int    `json:"y" jsonschema:"New top edge in pixels"`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Instance id of the window"`
	Width    int    `json:"width" jsonschema:"New width in pixels; raised to the app minimum"`
	Height   int    `json:"height" jsonschema:"New height in pixels; raised to the app minimum"`
}

// EmptyInput is the input for tools without arguments.
type EmptyInput struct{}

// WindowInfo describes one window.
type WindowInfo struct {
	WindowID string `json:"window_id"`
	AppID    string `json:"app_id"`
	Title    string `json:"title"`
	State    string `json:"state"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ZOrder   int    `json:"z_order"`
	Active   bool   `json:"active"`
}

// LaunchAppOutput is the output for the launch_app tool.
type LaunchAppOutput struct {
	Window WindowInfo `json:"window"`
}

// WindowOutput is the output for single-window tools. Changed is false when
// the window does not exist or the command did not apply to its state.
type WindowOutput struct {
	Changed bool        `json:"changed"`
	Window  *WindowInfo `json:"window,omitempty"`
}

// CountOutput is the output for cascade_windows and tile_windows.
type CountOutput struct {
	Count int `json:"count"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	SessionID string       `json:"session_id"`
	ActiveID  string       `json:"active_id,omitempty"`
	Windows   []WindowInfo `json:"windows"`
}

// AppInfo describes one launchable application.
type AppInfo struct {
	AppID      string `json:"app_id"`
	Title      string `json:"title"`
	Icon       string `json:"icon,omitempty"`
	ExeName    string `json:"exe_name,omitempty"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	MinWidth   int    `json:"min_width"`
	MinHeight  int    `json:"min_height"`
	Resizable  bool   `json:"resizable"`
	HasMenuBar bool   `json:"has_menu_bar"`
}

// ListAppsOutput is the output for the list_apps tool.
type ListAppsOutput struct {
	Apps []AppInfo `json:"apps"`
}
