// Package action runs operator-initiated mutations optimistically: it locks the
// affected item, issues the command and commits or rolls back on the result.
package action

import (
	"context"

	"github.com/soocke/dualcam-monitor/domain/monitor"
	"github.com/soocke/dualcam-monitor/domain/remote"
)

// ItemKind distinguishes actionable items.
type ItemKind int

const (
	ItemAlarm ItemKind = iota
	ItemCamera
)

func (k ItemKind) String() string {
	if k == ItemCamera {
		return "camera"
	}
	return "alarm"
}

// Item identifies an actionable row or control group.
type Item struct {
	Kind ItemKind
	ID   string
}

// AlarmItem is the item for an alarm row.
func AlarmItem(id string) Item { return Item{Kind: ItemAlarm, ID: id} }

// CameraItem is the item for a camera's connect/disconnect controls.
func CameraItem(id monitor.CameraID) Item { return Item{Kind: ItemCamera, ID: string(id)} }

func (i Item) String() string { return i.Kind.String() + ":" + i.ID }

// Phase is the per-item action state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhasePending
	PhaseCommitting
)

func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseCommitting:
		return "committing"
	default:
		return "idle"
	}
}

// Command names the mutation being run.
type Command int

const (
	CmdEvaluateCorrect Command = iota
	CmdEvaluateIncorrect
	CmdConnect
	CmdDisconnect
)

func (c Command) String() string {
	switch c {
	case CmdEvaluateCorrect:
		return "evaluate_correct"
	case CmdEvaluateIncorrect:
		return "evaluate_incorrect"
	case CmdConnect:
		return "connect"
	case CmdDisconnect:
		return "disconnect"
	}
	return "unknown"
}

// Mutator is the command side of the remote client.
type Mutator interface {
	EvaluateAlarm(ctx context.Context, alarmID string, correct bool) (remote.CommandResult, error)
	ConnectCamera(ctx context.Context, cameraID, rtspURL string) (remote.CommandResult, error)
	DisconnectCamera(ctx context.Context, cameraID string) (remote.CommandResult, error)
}

// Controls is the operator-facing lock for an item's controls.
type Controls interface {
	// Lock disables the item's controls and shows progress. The returned func
	// restores the exact pre-action presentation.
	Lock(item Item, cmd Command) (restore func())
	// Commit shows the success presentation for cmd.
	Commit(item Item, cmd Command)
	// Release unlocks the item after a commit.
	Release(item Item)
}

// Notifier surfaces operator-facing outcome messages.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// StateWriter applies optimistic local transitions.
type StateWriter interface {
	Apply(p monitor.Partial) []monitor.Field
}

// Refresher re-reads authoritative state after a committed evaluation.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// PhaseListener is called on each phase transition of an item.
type PhaseListener func(item Item, prev, next Phase)
