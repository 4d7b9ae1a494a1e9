package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"
)

const (
	ServerName    = "progman"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing window-manager tools.
type Server struct {
	mcpServer *mcpsdk.Server
	desktop   Desktop
	logger    *zap.Logger
}

// NewServer creates an MCP server whose tools drive d.
func NewServer(d Desktop, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		desktop: d,
		logger:  logger.Named("mcp"),
	}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "launch_app",
		Description: "Launch an application into a new window. The window opens on top of the stack and becomes active. Position and size default to the staggered launch position and the app's default size. Returns the new window.",
	}, s.handleLaunchApp)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "close_window",
		Description: "Close a window. If it was active, the topmost remaining visible window becomes active.",
	}, s.handleCloseWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "minimize_window",
		Description: "Minimize a window to the icon strip. A maximized window is restored to its saved geometry first. No other window is activated.",
	}, s.handleMinimizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "maximize_window",
		Description: "Maximize a window to fill the work area, saving its geometry. Maximizing an already maximized window restores it.",
	}, s.handleMaximizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "restore_window",
		Description: "Restore a maximized window to its saved geometry, or a minimized window to the desktop and the top of the stack.",
	}, s.handleRestoreWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "focus_window",
		Description: "Bring a window to the front and make it active. A minimized window is restored first.",
	}, s.handleFocusWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "move_window",
		Description: "Move a window's top-left corner to (x, y).",
	}, s.handleMoveWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_window",
		Description: "Resize a window. Sizes below the application's minimum are raised to the minimum.",
	}, s.handleResizeWindow)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "cascade_windows",
		Description: "Arrange all visible windows in an overlapping diagonal cascade. Maximized windows are restored to normal. Returns the number of windows arranged.",
	}, s.handleCascadeWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "tile_windows",
		Description: "Arrange all visible windows in a near-square grid filling the work area. Returns the number of windows arranged.",
	}, s.handleTileWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_windows",
		Description: "List every open window, including minimized ones, with geometry, state, stacking order and which one is active.",
	}, s.handleListWindows)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_apps",
		Description: "List the applications that can be launched.",
	}, s.handleListApps)
}
