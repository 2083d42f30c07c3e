package session

import (
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"

	"github.com/ironreach/starforge/internal/player"
	"github.com/ironreach/starforge/internal/registry"
	"github.com/ironreach/starforge/pkg/background"
	"github.com/ironreach/starforge/pkg/config"
	"github.com/ironreach/starforge/pkg/logger"
)

// Server :
// Accepts TCP connections on a configured address and drives one
// `Connection` per client. Background tick processes are started and
// stopped alongside the listener so the simulation only runs while
// clients can actually be served.
//
// The `cfg` carries the listen address, frame size limit, and tick
// intervals read from the configuration layer.
//
// The `reg` is the immutable content catalog shared by every
// connection and every tick.
//
// The `players` owns every registered player and their galaxies.
//
// The `log` is used for every connection and scheduler trace.
//
// The `processes` holds the background tick runners wired in by the
// scheduler package; `Serve` starts and stops them around the accept
// loop.
type Server struct {
	cfg     config.ServerConfig
	reg     *registry.Registry
	players *player.Manager
	log     logger.Logger

	processes []*background.Process

	listener net.Listener
}

// ErrAlreadyServing :
// Returned by `Serve` if called twice on the same server.
var ErrAlreadyServing = fmt.Errorf("server is already serving")

// NewServer :
// Creates a server ready to accept connections once `Serve` is called.
func NewServer(cfg config.ServerConfig, reg *registry.Registry, players *player.Manager, log logger.Logger, processes []*background.Process) *Server {
	return &Server{
		cfg:       cfg,
		reg:       reg,
		players:   players,
		log:       log,
		processes: processes,
	}
}

// Serve :
// Listens on the configured address and accepts connections until a
// SIGINT is received, then stops every background process and closes
// the listener.
func (s *Server) Serve() error {
	if s.listener != nil {
		return ErrAlreadyServing
	}

	listener, err := net.Listen("tcp", fmt.Sprintf("%s:%d", s.cfg.ListenAddress, s.cfg.ListenPort))
	if err != nil {
		return err
	}
	s.listener = listener

	for _, p := range s.processes {
		p.Start()
	}

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()
		s.acceptLoop()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	s.log.Trace(logger.Notice, "server", "shutting down")

	s.listener.Close()
	for _, p := range s.processes {
		p.Stop()
	}

	wg.Wait()

	return nil
}

func (s *Server) acceptLoop() {
	s.log.Trace(logger.Notice, "server", fmt.Sprintf("server listening on %s:%d", s.cfg.ListenAddress, s.cfg.ListenPort))

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.log.Trace(logger.Notice, "server", "listener closed, stopping accept loop")
			return
		}

		c := newConnection(conn, s.reg, s.players, s.log)
		maxFrameBytes := s.cfg.FrameMaxBytes
		go c.run(maxFrameBytes)
	}
}
