package mcp

import (
	"context"
	"fmt"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/1broseidon/progman/internal/apps"
	"github.com/1broseidon/progman/internal/desktop"
	"github.com/1broseidon/progman/internal/geometry"
	"github.com/1broseidon/progman/internal/ipc"
)

func windowInfo(w desktop.Window) WindowInfo {
	return WindowInfo{
		WindowID: w.ID,
		AppID:    w.AppID,
		Title:    w.Title,
		State:    w.State.String(),
		X:        w.Position.X,
		Y:        w.Position.Y,
		Width:    w.Size.Width,
		Height:   w.Size.Height,
		ZOrder:   w.ZOrder,
		Active:   w.Active,
	}
}

func appInfo(d apps.Descriptor) AppInfo {
	return AppInfo{
		AppID:      d.ID,
		Title:      d.Title,
		Icon:       d.Icon,
		ExeName:    d.ExeName,
		Width:      d.DefaultSize.Width,
		Height:     d.DefaultSize.Height,
		MinWidth:   d.MinSize.Width,
		MinHeight:  d.MinSize.Height,
		Resizable:  d.Resizable,
		HasMenuBar: d.HasMenuBar(),
	}
}

func windowOutput(data *ipc.ChangedData) WindowOutput {
	out := WindowOutput{Changed: data.Changed}
	if data.Window != nil {
		info := windowInfo(*data.Window)
		out.Window = &info
	}
	return out
}

func requireWindowID(tool, id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%s: window_id is required", tool)
	}
	return nil
}

func (s *Server) handleLaunchApp(_ context.Context, _ *mcpsdk.CallToolRequest, args LaunchAppInput) (*mcpsdk.CallToolResult, LaunchAppOutput, error) {
	if strings.TrimSpace(args.AppID) == "" {
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: app_id is required")
	}
	p := ipc.LaunchPayload{AppID: args.AppID, Title: args.Title}

	if (args.X == nil) != (args.Y == nil) {
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: x and y must be given together")
	}
	if args.X != nil {
		p.Position = &geometry.Point{X: *args.X, Y: *args.Y}
	}
	if (args.Width == nil) != (args.Height == nil) {
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: width and height must be given together")
	}
	if args.Width != nil {
		p.Size = &geometry.Size{Width: *args.Width, Height: *args.Height}
	}

	data, err := s.desktop.Launch(p)
	if err != nil {
		s.logger.Debug("launch_app failed", zap.String("app", args.AppID), zap.Error(err))
		return nil, LaunchAppOutput{}, fmt.Errorf("launch_app: %w", err)
	}
	s.logger.Debug("launch_app", zap.String("app", args.AppID), zap.String("window", data.WindowID))
	return nil, LaunchAppOutput{Window: windowInfo(data.Window)}, nil
}

// windowTool wraps a single-window desktop command as a tool handler.
func (s *Server) windowTool(tool string, op func(string) (*ipc.ChangedData, error)) func(context.Context, *mcpsdk.CallToolRequest, WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return func(_ context.Context, _ *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
		if err := requireWindowID(tool, args.WindowID); err != nil {
			return nil, WindowOutput{}, err
		}
		data, err := op(args.WindowID)
		if err != nil {
			return nil, WindowOutput{}, fmt.Errorf("%s: %w", tool, err)
		}
		s.logger.Debug(tool, zap.String("window", args.WindowID), zap.Bool("changed", data.Changed))
		return nil, windowOutput(data), nil
	}
}

func (s *Server) handleCloseWindow(ctx context.Context, req *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("close_window", s.desktop.Close)(ctx, req, args)
}

func (s *Server) handleMinimizeWindow(ctx context.Context, req *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("minimize_window", s.desktop.Minimize)(ctx, req, args)
}

func (s *Server) handleMaximizeWindow(ctx context.Context, req *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("maximize_window", s.desktop.Maximize)(ctx, req, args)
}

func (s *Server) handleRestoreWindow(ctx context.Context, req *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("restore_window", s.desktop.Restore)(ctx, req, args)
}

func (s *Server) handleFocusWindow(ctx context.Context, req *mcpsdk.CallToolRequest, args WindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	return s.windowTool("focus_window", s.desktop.Focus)(ctx, req, args)
}

func (s *Server) handleMoveWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args MoveWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireWindowID("move_window", args.WindowID); err != nil {
		return nil, WindowOutput{}, err
	}
	data, err := s.desktop.Move(args.WindowID, args.X, args.Y)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("move_window: %w", err)
	}
	return nil, windowOutput(data), nil
}

func (s *Server) handleResizeWindow(_ context.Context, _ *mcpsdk.CallToolRequest, args ResizeWindowInput) (*mcpsdk.CallToolResult, WindowOutput, error) {
	if err := requireWindowID("resize_window", args.WindowID); err != nil {
		return nil, WindowOutput{}, err
	}
	data, err := s.desktop.Resize(args.WindowID, args.Width, args.Height)
	if err != nil {
		return nil, WindowOutput{}, fmt.Errorf("resize_window: %w", err)
	}
	return nil, windowOutput(data), nil
}

func (s *Server) handleCascadeWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, CountOutput, error) {
	n, err := s.desktop.Cascade()
	if err != nil {
		return nil, CountOutput{}, fmt.Errorf("cascade_windows: %w", err)
	}
	return nil, CountOutput{Count: n}, nil
}

func (s *Server) handleTileWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, CountOutput, error) {
	n, err := s.desktop.Tile()
	if err != nil {
		return nil, CountOutput{}, fmt.Errorf("tile_windows: %w", err)
	}
	return nil, CountOutput{Count: n}, nil
}

func (s *Server) handleListWindows(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListWindowsOutput, error) {
	snap, err := s.desktop.List()
	if err != nil {
		return nil, ListWindowsOutput{}, fmt.Errorf("list_windows: %w", err)
	}

	windows := make([]WindowInfo, 0, len(snap.Windows))
	for _, w := range snap.Windows {
		windows = append(windows, windowInfo(w))
	}
	return nil, ListWindowsOutput{
		SessionID: snap.SessionID,
		ActiveID:  snap.ActiveID,
		Windows:   windows,
	}, nil
}

func (s *Server) handleListApps(_ context.Context, _ *mcpsdk.CallToolRequest, _ EmptyInput) (*mcpsdk.CallToolResult, ListAppsOutput, error) {
	data, err := s.desktop.ListApps()
	if err != nil {
		return nil, ListAppsOutput{}, fmt.Errorf("list_apps: %w", err)
	}

	list := make([]AppInfo, 0, len(data.Apps))
	for _, d := range data.Apps {
		list = append(list, appInfo(d))
	}
	return nil, ListAppsOutput{Apps: list}, nil
}
