package protocol

import (
	"encoding/json"
	"fmt"

	"github.com/SeamusWaldron/twisty/internal/cube"
)

// Rotate is a decoded rotate request.
type Rotate struct {
	Move     cube.Move
	Animated bool
}

// Apply is a decoded apply request.
type Apply struct {
	Moves    []cube.Move
	Animated bool
}

// DecodeRotate decodes and validates a rotate message.
func DecodeRotate(b []byte) (*Rotate, error) {
	var msg RotateMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("invalid rotate message: %w", err)
	}
	face, err := cube.ParseFace(msg.Face)
	if err != nil {
		return nil, err
	}
	dir := cube.CW
	if msg.Direction != "" {
		if dir, err = cube.ParseDirection(msg.Direction); err != nil {
			return nil, err
		}
	}
	return &Rotate{Move: cube.Move{Face: face, Direction: dir}, Animated: msg.Animated}, nil
}

// DecodeShuffle decodes a shuffle message. The count is returned as sent;
// bounding it is up to the caller.
func DecodeShuffle(b []byte) (*ShuffleMsg, error) {
	var msg ShuffleMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("invalid shuffle message: %w", err)
	}
	return &msg, nil
}

// DecodeApply decodes an apply message and parses its notation.
func DecodeApply(b []byte) (*Apply, error) {
	var msg ApplyMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("invalid apply message: %w", err)
	}
	moves, err := cube.ParseMoves(msg.Moves)
	if err != nil {
		return nil, err
	}
	return &Apply{Moves: moves, Animated: msg.Animated}, nil
}

// DecodeUndo decodes an undo message.
func DecodeUndo(b []byte) (*UndoMsg, error) {
	var msg UndoMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("invalid undo message: %w", err)
	}
	return &msg, nil
}

// DecodePointer decodes and validates a pointer message.
func DecodePointer(b []byte) (*PointerMsg, error) {
	var msg PointerMsg
	if err := json.Unmarshal(b, &msg); err != nil {
		return nil, fmt.Errorf("invalid pointer message: %w", err)
	}
	switch msg.Phase {
	case PhaseDown:
		if (msg.Point == nil) != (msg.Normal == nil) {
			return nil, fmt.Errorf("pointer down needs both point and normal")
		}
	case PhaseMove, PhaseUp, PhaseCancel:
	default:
		return nil, fmt.Errorf("unknown pointer phase %q", msg.Phase)
	}
	return &msg, nil
}
