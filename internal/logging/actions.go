package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/1broseidon/progman/internal/desktop"
)

// Action names a window-manager action in the log.
type Action string

const (
	ActionLaunch   Action = "LAUNCH"
	ActionClose    Action = "CLOSE"
	ActionCloseAll Action = "CLOSE-ALL"
	ActionMinimize Action = "MINIMIZE"
	ActionMaximize Action = "MAXIMIZE"
	ActionRestore  Action = "RESTORE"
	ActionFocus    Action = "FOCUS"
	ActionMove     Action = "MOVE"
	ActionResize   Action = "RESIZE"
	ActionSetTitle Action = "SET-TITLE"
	ActionCascade  Action = "CASCADE"
	ActionTile     Action = "TILE"
	ActionWorkArea Action = "WORK-AREA"
)

var actionsByKind = map[desktop.EventKind]Action{
	desktop.EventLaunch:   ActionLaunch,
	desktop.EventClose:    ActionClose,
	desktop.EventCloseAll: ActionCloseAll,
	desktop.EventMinimize: ActionMinimize,
	desktop.EventMaximize: ActionMaximize,
	desktop.EventRestore:  ActionRestore,
	desktop.EventFocus:    ActionFocus,
	desktop.EventMove:     ActionMove,
	desktop.EventResize:   ActionResize,
	desktop.EventSetTitle: ActionSetTitle,
	desktop.EventCascade:  ActionCascade,
	desktop.EventTile:     ActionTile,
	desktop.EventWorkArea: ActionWorkArea,
}

// ActionFor maps a store event to its log action.
func ActionFor(kind desktop.EventKind) (Action, bool) {
	a, ok := actionsByKind[kind]
	return a, ok
}

// actionLevel returns the log level for an action. Pointer-driven geometry
// updates arrive many times a second during a gesture, so they stay at debug.
func actionLevel(action Action) zapcore.Level {
	switch action {
	case ActionMove, ActionResize, ActionFocus:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// ActionObserver logs every store event at its action's level.
type ActionObserver struct {
	logger *zap.Logger
}

// NewActionObserver returns an observer writing to logger.
func NewActionObserver(logger *zap.Logger) *ActionObserver {
	return &ActionObserver{logger: logger.Named("desktop")}
}

// Observe implements desktop.Observer.
func (o *ActionObserver) Observe(ev desktop.Event, snap desktop.Snapshot) {
	action, ok := ActionFor(ev.Kind)
	if !ok {
		o.logger.Warn("unknown desktop event", zap.String("kind", string(ev.Kind)))
		return
	}

	ce := o.logger.Check(actionLevel(action), string(action))
	if ce == nil {
		return
	}

	fields := []zap.Field{zap.Uint64("seq", ev.Seq)}
	if ev.WindowID != "" {
		fields = append(fields, zap.String("window", ev.WindowID), zap.String("app", ev.AppID))
		if w, ok := snap.Window(ev.WindowID); ok {
			fields = append(fields,
				zap.String("state", w.State.String()),
				zap.Int("x", w.Position.X), zap.Int("y", w.Position.Y),
				zap.Int("width", w.Size.Width), zap.Int("height", w.Size.Height),
			)
		}
	}
	if ev.Count > 0 && ev.WindowID == "" {
		fields = append(fields, zap.Int("count", ev.Count))
	}
	if snap.ActiveID != "" {
		fields = append(fields, zap.String("active", snap.ActiveID))
	}
	ce.Write(fields...)
}
