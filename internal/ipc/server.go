package ipc

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"sync"
	"time"

	"github.com/1broseidon/stackwm/internal/wm"
)

// requestTimeout bounds how long one request may wait on the event loop.
const requestTimeout = 5 * time.Second

// Controller is the part of the event loop the server drives.
type Controller interface {
	Snapshot(ctx context.Context) (wm.Snapshot, error)
	Command(ctx context.Context, text string) error
	Do(ctx context.Context, fn func(m *wm.Manager) error) error
}

// Server handles IPC requests from clients
type Server struct {
	socketPath   string
	listener     net.Listener
	ctrl         Controller
	startTime    time.Time
	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a new IPC server bound to socketPath.
func NewServer(socketPath string, ctrl Controller) *Server {
	return &Server{
		socketPath: socketPath,
		ctrl:       ctrl,
		startTime:  time.Now(),
	}
}

// Start begins listening for IPC connections
func (s *Server) Start() error {
	// Remove a stale socket left by a previous run.
	os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("failed to create IPC socket: %w", err)
	}
	s.listener = listener

	if err := os.Chmod(s.socketPath, 0600); err != nil {
		listener.Close()
		return fmt.Errorf("failed to set socket permissions: %w", err)
	}

	log.Printf("IPC server listening on %s", s.socketPath)

	go s.acceptLoop()

	return nil
}

// SocketPath returns the path the server listens on.
func (s *Server) SocketPath() string {
	return s.socketPath
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.shutdownMu.Lock()
			if s.shuttingDown {
				s.shutdownMu.Unlock()
				return
			}
			s.shutdownMu.Unlock()
			log.Printf("IPC accept error: %v", err)
			continue
		}

		go s.handleConnection(conn)
	}
}

// handleConnection answers a single JSON line with a single JSON line.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)

	data, err := reader.ReadBytes('\n')
	if err != nil && err != io.EOF {
		log.Printf("IPC read error: %v", err)
		return
	}

	var resp *Response
	req, err := ParseRequest(data)
	if err != nil {
		resp = NewErrorResponse(fmt.Sprintf("Invalid request: %v", err))
	} else {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		resp = s.handleCommand(ctx, req)
		cancel()
	}

	respData, err := resp.Marshal()
	if err != nil {
		log.Printf("Failed to marshal response: %v", err)
		return
	}

	respData = append(respData, '\n')
	if _, err := conn.Write(respData); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

func (s *Server) handleCommand(ctx context.Context, req *Request) *Response {
	switch req.Command {
	case CommandPing:
		resp, _ := NewOKResponse(nil)
		return resp
	case CommandGetStatus:
		return s.handleGetStatus(ctx)
	case CommandGetWindow:
		return s.handleGetWindow(ctx, req.Payload)
	case CommandRunCommand:
		return s.handleRunCommand(ctx, req.Payload)
	case CommandFocusWindow:
		return s.handleFocusWindow(ctx, req.Payload)
	default:
		return NewErrorResponse(fmt.Sprintf("Unknown command: %s", req.Command))
	}
}

func (s *Server) handleGetStatus(ctx context.Context) *Response {
	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}

	resp, err := NewOKResponse(StatusData{
		UptimeSeconds: int64(time.Since(s.startTime).Seconds()),
		DaemonRunning: true,
		State:         snap,
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	return resp
}

func (s *Server) handleGetWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}

	snap, err := s.ctrl.Snapshot(ctx)
	if err != nil {
		return NewErrorResponse(fmt.Sprintf("Failed to read state: %v", err))
	}
	w, ok := snap.Window(req.WindowID)
	if !ok {
		return NewErrorResponse(fmt.Sprintf("%v: %d", wm.ErrUnknownWindow, req.WindowID))
	}

	resp, _ := NewOKResponse(w)
	return resp
}

func (s *Server) handleRunCommand(ctx context.Context, payload json.RawMessage) *Response {
	var req RunCommandPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid command payload: %v", err))
	}
	if req.Command == "" {
		return NewErrorResponse("command is required")
	}

	log.Printf("IPC: Received command %q", req.Command)

	if err := s.ctrl.Command(ctx, req.Command); err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

func (s *Server) handleFocusWindow(ctx context.Context, payload json.RawMessage) *Response {
	var req WindowPayload
	if err := json.Unmarshal(payload, &req); err != nil {
		return NewErrorResponse(fmt.Sprintf("Invalid window payload: %v", err))
	}

	err := s.ctrl.Do(ctx, func(m *wm.Manager) error {
		return m.FocusWindow(req.WindowID)
	})
	if err != nil {
		return NewErrorResponse(err.Error())
	}
	resp, _ := NewOKResponse(nil)
	return resp
}

// Stop gracefully shuts down the IPC server
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if s.listener != nil {
		s.listener.Close()
	}
	os.Remove(s.socketPath)
}
