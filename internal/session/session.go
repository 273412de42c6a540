package session

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"log"
	"sync"

	"github.com/voidshard/wang"
	"github.com/voidshard/wang/internal/protocol"
)

// Broadcaster sends a message to every connected client.
type Broadcaster interface {
	Broadcast(message []byte)
}

// Saver persists grids as they change.
type Saver interface {
	Save(name string, g *wang.Grid, porosity float64) error
	SaveCells(name string, g *wang.Grid, cells []wang.Point) error
}

// Option configures a Session.
type Option func(*Session)

// WithStore saves the grid under `name` after every change.
func WithStore(s Saver, name string) Option {
	return func(sess *Session) {
		sess.store = s
		sess.name = name
	}
}

// WithCommands lets clients run named commands. Anything the commands print
// to `output` is sent back to clients.
func WithCommands(c *wang.Commands, output *bytes.Buffer) Option {
	return func(sess *Session) {
		sess.cmds = c
		sess.output = output
	}
}

// WithLogger sets where errors & activity are logged.
func WithLogger(l *log.Logger) Option {
	return func(sess *Session) {
		sess.log = l
	}
}

// Session is a shared editing session over one grid. Client intents are
// applied one at a time and every grid change is broadcast as a patch.
type Session struct {
	mu     sync.Mutex
	editor wang.Editor
	hub    Broadcaster
	store  Saver
	name   string
	cmds   *wang.Commands
	output *bytes.Buffer
	log    *log.Logger
	seq    uint64
}

// New returns a session driving `ed`. Wire the editor's update events to
// Notify so changes reach clients.
func New(ed wang.Editor, hub Broadcaster, opts ...Option) *Session {
	s := &Session{editor: ed, hub: hub}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = log.New(ioutil.Discard, "", 0)
	}
	return s
}

// Handle applies one client message.
func (s *Session) Handle(data []byte) error {
	var env protocol.IntentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return fmt.Errorf("decoding intent: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.apply(env)
	if err != nil {
		s.broadcast(protocol.PatchError, protocol.ErrorMessage{Intent: env.Type, Message: err.Error()})
	}
	return err
}

// apply dispatches an intent, caller holds the lock
func (s *Session) apply(env protocol.IntentEnvelope) error {
	switch env.Type {
	case protocol.IntentEdit:
		var req protocol.RequestEdit
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return err
		}
		return s.editor.HandleEdit(req.X, req.Y, req.Rotate)
	case protocol.IntentSetMask:
		var req protocol.RequestSetMask
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return err
		}
		return s.editor.Edit(req.X, req.Y, wang.EdgeMask(req.Mask))
	case protocol.IntentGenerate:
		return s.editor.Generate()
	case protocol.IntentPorosity:
		var req protocol.RequestPorosity
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return err
		}
		return s.editor.SetPorosity(req.Value)
	case protocol.IntentCommand:
		var req protocol.RequestCommand
		if err := json.Unmarshal(env.Payload, &req); err != nil {
			return err
		}
		return s.runCommand(req.Name)
	}
	return fmt.Errorf("unknown intent %q", env.Type)
}

// runCommand runs a named command & sends back whatever it printed
func (s *Session) runCommand(name string) error {
	if s.cmds == nil {
		return fmt.Errorf("%w: %s", wang.ErrUnknownCommand, name)
	}
	if s.output != nil {
		s.output.Reset()
	}

	if err := s.cmds.Run(name); err != nil {
		return err
	}

	if s.output != nil && s.output.Len() > 0 {
		s.broadcast(protocol.PatchCommandOutput, protocol.CommandOutput{Name: name, Output: s.output.String()})
	}
	return nil
}

// Notify broadcasts (and saves) a grid change. It is called by the editor
// while Handle holds the lock, or by the owner before clients connect.
func (s *Session) Notify(e wang.Event) {
	switch e.Kind {
	case wang.Generated:
		s.broadcast(protocol.PatchSnapshot, snapshot(e.Grid, s.editor.Porosity()))
		if s.store != nil {
			if err := s.store.Save(s.name, e.Grid, s.editor.Porosity()); err != nil {
				s.log.Printf("saving grid %s: %v", s.name, err)
			}
		}
	case wang.Edited:
		cells := make([]protocol.Cell, len(e.Cells))
		for i, p := range e.Cells {
			cells[i] = protocol.Cell{X: p.X, Y: p.Y, Mask: uint8(e.Grid.At(p.X, p.Y))}
		}
		s.broadcast(protocol.PatchCellsChanged, protocol.CellsChanged{Cells: cells})
		if s.store != nil {
			if err := s.store.SaveCells(s.name, e.Grid, e.Cells); err != nil {
				s.log.Printf("saving cells of %s: %v", s.name, err)
			}
		}
	}
}

// Snapshot returns the current grid as an encoded patch, for newly connected
// clients.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.editor.Grid()
	if g == nil {
		return nil, wang.ErrNoGrid
	}
	return json.Marshal(protocol.PatchEnvelope{
		Sequence: s.seq,
		Type:     protocol.PatchSnapshot,
		Payload:  snapshot(g, s.editor.Porosity()),
	})
}

// broadcast wraps payload in an envelope with the next sequence number
func (s *Session) broadcast(kind string, payload any) {
	s.seq++
	b, err := json.Marshal(protocol.PatchEnvelope{Sequence: s.seq, Type: kind, Payload: payload})
	if err != nil {
		s.log.Printf("encoding %s patch: %v", kind, err)
		return
	}
	s.hub.Broadcast(b)
}

func snapshot(g *wang.Grid, porosity float64) protocol.GridSnapshot {
	cells := g.Cells()
	out := make([]uint8, len(cells))
	for i, c := range cells {
		out[i] = uint8(c)
	}
	return protocol.GridSnapshot{Width: g.Width(), Height: g.Height(), Porosity: porosity, Cells: out}
}
