// Package ws serves a puzzle to remote clients over a websocket: clients
// send turn and pointer requests and receive frames and turn events.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/websocket"

	"github.com/SeamusWaldron/twisty"
	"github.com/SeamusWaldron/twisty/internal/protocol"
)

const (
	outQueue     = 64
	writeTimeout = 5 * time.Second
	readTimeout  = 60 * time.Second
)

type client struct {
	out chan []byte
}

// Server owns one puzzle and fans its frames out to every connection.
type Server struct {
	puzzle *twisty.Puzzle
	log    *log.Logger
	now    func() time.Time

	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	seq     uint64
	wasBusy bool
}

// NewServer returns a server for p. It installs the puzzle's OnTurn, OnSolved
// and OnGesture callbacks.
func NewServer(p *twisty.Puzzle, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Server{
		puzzle: p,
		log:    logger,
		now:    time.Now,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		clients: make(map[*client]struct{}),
	}
	p.OnTurn(func(m twisty.Move, src twisty.Source) {
		s.broadcast(protocol.TurnMsg{Type: protocol.TypeTurn, Move: m.Notation(), Source: string(src)})
	})
	p.OnSolved(func() {
		s.broadcast(protocol.SolvedMsg{Type: protocol.TypeSolved})
	})
	p.OnGesture(func(cmd twisty.GestureCommand, reason twisty.GestureReason) {
		msg := protocol.GestureMsg{Type: protocol.TypeGesture, Reason: reason.String()}
		if cmd.Face.Valid() {
			msg.Command = cmd.String()
		}
		s.broadcast(msg)
	})
	return s
}

// Clients returns the number of open connections.
func (s *Server) Clients() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// Run steps the puzzle at its frame rate and broadcasts a frame whenever a
// turn is in flight, plus one after it lands.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.puzzle.FrameInterval())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.puzzle.Step(s.now())
			busy := s.puzzle.Busy()
			s.mu.Lock()
			send := busy || s.wasBusy
			s.wasBusy = busy
			s.mu.Unlock()
			if send {
				s.broadcastFrame()
			}
		}
	}
}

// Handler upgrades requests to websocket connections.
func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			s.log.Printf("upgrade: %v", err)
			return
		}
		defer conn.Close()

		c := &client{out: make(chan []byte, outQueue)}
		s.mu.Lock()
		s.clients[c] = struct{}{}
		s.mu.Unlock()
		defer func() {
			s.mu.Lock()
			delete(s.clients, c)
			s.mu.Unlock()
		}()

		welcome := protocol.WelcomeMsg{
			Type:    protocol.TypeWelcome,
			Version: protocol.Version,
			Spacing: s.puzzle.Spacing(),
			Frame:   s.frame(),
		}
		if err := writeJSON(conn, welcome); err != nil {
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		// Writer goroutine.
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case b := <-c.out:
					_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
					if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
						cancel()
						return
					}
				}
			}
		}()

		// Reader loop.
		for {
			_ = conn.SetReadDeadline(time.Now().Add(readTimeout))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if reply := s.handle(msg); reply != nil {
				s.send(c, reply)
			}
		}
	}
}

// handle applies one client message and returns an error reply, if any.
func (s *Server) handle(msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError(protocol.ErrBadRequest, err.Error())
	}

	switch base.Type {
	case protocol.TypeRotate:
		r, err := protocol.DecodeRotate(msg)
		if err != nil {
			return protocol.NewError(protocol.ErrInvalidMove, err.Error())
		}
		c, err := s.puzzle.RotateFaceAs(twisty.SourceAPI, r.Move.Face, r.Move.Direction, r.Animated)
		if err != nil {
			return protocol.NewError(protocol.ErrInvalidMove, err.Error())
		}
		if c.Rejected() {
			return protocol.NewError(protocol.ErrBusy, "turn in flight")
		}

	case protocol.TypeShuffle:
		m, err := protocol.DecodeShuffle(msg)
		if err != nil {
			return protocol.NewError(protocol.ErrBadRequest, err.Error())
		}
		n := twisty.ClampShuffle(m.Count, s.puzzle.MaxShuffle())
		if _, err := s.puzzle.Shuffle(n, m.Animated); err != nil {
			return protocol.NewError(protocol.ErrInternal, err.Error())
		}

	case protocol.TypeApply:
		a, err := protocol.DecodeApply(msg)
		if err != nil {
			return protocol.NewError(protocol.ErrInvalidMove, err.Error())
		}
		if _, err := s.puzzle.Play(a.Moves, a.Animated); err != nil {
			return protocol.NewError(protocol.ErrInvalidMove, err.Error())
		}

	case protocol.TypeUndo:
		u, err := protocol.DecodeUndo(msg)
		if err != nil {
			return protocol.NewError(protocol.ErrBadRequest, err.Error())
		}
		if c, ok := s.puzzle.Undo(u.Animated); ok && c.Rejected() {
			return protocol.NewError(protocol.ErrBusy, "turn in flight")
		}

	case protocol.TypeReset:
		s.puzzle.ResetSolved()

	case protocol.TypePointer:
		p, err := protocol.DecodePointer(msg)
		if err != nil {
			return protocol.NewError(protocol.ErrBadRequest, err.Error())
		}
		s.pointer(p)

	default:
		return protocol.NewError(protocol.ErrBadRequest, "unknown message type "+base.Type)
	}

	s.broadcastFrame()
	return nil
}

func (s *Server) pointer(p *protocol.PointerMsg) {
	switch p.Phase {
	case protocol.PhaseDown:
		var hit *twisty.Hit
		if p.Point != nil {
			hit = &twisty.Hit{Point: mgl64.Vec3(*p.Point), Normal: mgl64.Vec3(*p.Normal)}
		}
		s.puzzle.PointerDown(p.Pointer, hit)
	case protocol.PhaseMove:
		if p.Delta != nil {
			s.puzzle.PointerMoveWorld(p.Pointer, mgl64.Vec3(*p.Delta))
		} else {
			s.puzzle.PointerMove(p.Pointer, p.DX, p.DY)
		}
	case protocol.PhaseUp:
		s.puzzle.PointerUp(p.Pointer)
	case protocol.PhaseCancel:
		s.puzzle.PointerCancel()
	}
}

func (s *Server) frame() protocol.FrameMsg {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	snap := s.puzzle.Frame()
	f := protocol.FrameMsg{
		Type:   protocol.TypeFrame,
		Seq:    seq,
		State:  snap.State.String(),
		Solved: snap.Solved,
	}
	if snap.Turning {
		f.Active = snap.Active.Notation()
		f.Progress = snap.Progress
	}
	for _, t := range snap.Transforms {
		f.Cubies = append(f.Cubies, protocol.CubieMsg{
			ID:       t.ID,
			Position: [3]float64(t.Position),
			Rotation: [4]float64{t.Rotation.W, t.Rotation.V[0], t.Rotation.V[1], t.Rotation.V[2]},
		})
	}
	return f
}

func (s *Server) broadcastFrame() {
	s.broadcast(s.frame())
}

func (s *Server) broadcast(v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("encode: %v", err)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for c := range s.clients {
		s.enqueue(c, b)
	}
}

func (s *Server) send(c *client, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		s.log.Printf("encode: %v", err)
		return
	}
	s.enqueue(c, b)
}

// enqueue drops the message when the client is not keeping up.
func (s *Server) enqueue(c *client, b []byte) {
	select {
	case c.out <- b:
	default:
		s.log.Printf("client queue full, dropping message")
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
		if errors.Is(err, websocket.ErrCloseSent) {
			return nil
		}
		return err
	}
	return nil
}
