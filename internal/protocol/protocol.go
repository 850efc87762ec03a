// Package protocol defines the JSON messages exchanged with remote puzzle
// clients over a websocket.
package protocol

import "encoding/json"

// Version is sent in the welcome message.
const Version = "1"

// Message types sent by clients.
const (
	TypeRotate  = "rotate"
	TypeShuffle = "shuffle"
	TypeApply   = "apply"
	TypeUndo    = "undo"
	TypeReset   = "reset"
	TypePointer = "pointer"
)

// Message types sent by the server.
const (
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeTurn    = "turn"
	TypeSolved  = "solved"
	TypeGesture = "gesture"
	TypeError   = "error"
)

// Error codes.
const (
	ErrBadRequest  = "E_BAD_REQUEST"
	ErrInvalidMove = "E_INVALID_MOVE"
	ErrBusy        = "E_BUSY"
	ErrInternal    = "E_INTERNAL"
)

// Pointer phases.
const (
	PhaseDown   = "down"
	PhaseMove   = "move"
	PhaseUp     = "up"
	PhaseCancel = "cancel"
)

// BaseMessage lets unknown JSON messages be routed by type.
type BaseMessage struct {
	Type string `json:"type"`
}

// RotateMsg requests one quarter turn.
type RotateMsg struct {
	Type      string `json:"type"`
	Face      string `json:"face"`
	Direction string `json:"direction"`
	Animated  bool   `json:"animated"`
}

// ShuffleMsg requests Count random turns.
type ShuffleMsg struct {
	Type     string `json:"type"`
	Count    int    `json:"count"`
	Animated bool   `json:"animated"`
}

// ApplyMsg requests a sequence in standard notation.
type ApplyMsg struct {
	Type     string `json:"type"`
	Moves    string `json:"moves"`
	Animated bool   `json:"animated"`
}

// UndoMsg requests that the last turn be turned back.
type UndoMsg struct {
	Type     string `json:"type"`
	Animated bool   `json:"animated"`
}

// PointerMsg forwards pointer input. A down without Point and Normal is a
// pointer that missed the cube. Move carries either a screen delta (DX, DY)
// or, when Delta is set, a world-space displacement.
type PointerMsg struct {
	Type    string      `json:"type"`
	Phase   string      `json:"phase"`
	Pointer int         `json:"pointer"`
	Point   *[3]float64 `json:"point,omitempty"`
	Normal  *[3]float64 `json:"normal,omitempty"`
	DX      float64     `json:"dx,omitempty"`
	DY      float64     `json:"dy,omitempty"`
	Delta   *[3]float64 `json:"delta,omitempty"`
}

// CubieMsg is the pose of one cubie. Rotation is a quaternion (w, x, y, z).
type CubieMsg struct {
	ID       int        `json:"id"`
	Position [3]float64 `json:"position"`
	Rotation [4]float64 `json:"rotation"`
}

// FrameMsg is a snapshot of every cubie pose.
type FrameMsg struct {
	Type     string     `json:"type"`
	Seq      uint64     `json:"seq"`
	State    string     `json:"state"`
	Active   string     `json:"active,omitempty"`
	Progress float64    `json:"progress,omitempty"`
	Solved   bool       `json:"solved"`
	Cubies   []CubieMsg `json:"cubies"`
}

// WelcomeMsg is the first message on every connection.
type WelcomeMsg struct {
	Type    string   `json:"type"`
	Version string   `json:"version"`
	Spacing float64  `json:"spacing"`
	Frame   FrameMsg `json:"frame"`
}

// TurnMsg reports a committed turn.
type TurnMsg struct {
	Type   string `json:"type"`
	Move   string `json:"move"`
	Source string `json:"source"`
}

// SolvedMsg reports that the puzzle became solved.
type SolvedMsg struct {
	Type string `json:"type"`
}

// GestureMsg reports how a released gesture was interpreted.
type GestureMsg struct {
	Type    string `json:"type"`
	Command string `json:"command,omitempty"`
	Reason  string `json:"reason"`
}

// ErrorMsg reports a rejected client message.
type ErrorMsg struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// DecodeBase reads the type of a message.
func DecodeBase(b []byte) (BaseMessage, error) {
	var m BaseMessage
	err := json.Unmarshal(b, &m)
	return m, err
}

// NewError returns an error message.
func NewError(code, message string) ErrorMsg {
	return ErrorMsg{Type: TypeError, Code: code, Message: message}
}
