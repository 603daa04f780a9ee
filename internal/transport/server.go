// Package transport terminates inbound TCP connections, performs the
// framed text-stream upgrade handshake, keeps the set of accepted
// clients, and broadcasts payloads to them as single text frames. It
// never reads frames back from a client: the engine has no command
// path from the network.
package transport

import (
	"bufio"
	"net"
	"sync"

	"github.com/google/uuid"
	"github.com/marketsim/hfengine/internal/engineerr"
	"github.com/panjf2000/ants/v2"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Server accepts clients on one TCP port and fans broadcasts out to
// all of them.
type Server struct {
	addr   string
	logger *zap.Logger

	listener     net.Listener
	pool         *ants.Pool
	clientsGauge prometheus.Gauge

	mu      sync.Mutex
	clients map[string]*client

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Server bound to addr once Start is called. poolSize
// bounds the number of concurrent handshake goroutines. clientsGauge is
// kept in step with the accepted client set on every add/drop; it may
// be nil to skip that bookkeeping (e.g. in tests).
func New(addr string, poolSize int, clientsGauge prometheus.Gauge, logger *zap.Logger) (*Server, error) {
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, engineerr.Wrap(err, engineerr.TransportSetupFailure, "failed to create handshake pool")
	}
	return &Server{
		addr:         addr,
		logger:       logger,
		pool:         pool,
		clientsGauge: clientsGauge,
		clients:      make(map[string]*client),
		stopCh:       make(chan struct{}),
	}, nil
}

// Start binds and listens on the configured port and spawns the
// accept loop. It returns false if socket setup fails.
func (s *Server) Start() bool {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.logger.Error("transport setup failed", zap.Error(err))
		return false
	}
	s.listener = listener

	s.wg.Add(1)
	go s.acceptLoop()
	return true
}

// Stop stops accepting, closes all client sockets, closes the
// listener, and joins the accept thread. Idempotent.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		if s.listener != nil {
			_ = s.listener.Close()
		}

		s.mu.Lock()
		for id, c := range s.clients {
			_ = c.conn.Close()
			delete(s.clients, id)
			if s.clientsGauge != nil {
				s.clientsGauge.Dec()
			}
		}
		s.mu.Unlock()

		s.pool.Release()
	})
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				// Transient accept errors loop silently.
				continue
			}
		}

		task := func() { s.handleHandshake(conn) }
		if err := s.pool.Submit(task); err != nil {
			s.logger.Warn("handshake pool saturated, rejecting connection", zap.Error(err))
			_ = conn.Close()
		}
	}
}

func (s *Server) handleHandshake(conn net.Conn) {
	reader := bufio.NewReader(conn)
	if err := performHandshake(reader, conn); err != nil {
		s.logger.Debug("client handshake failed", zap.Error(err))
		_ = conn.Close()
		return
	}

	c := &client{id: uuid.NewString(), conn: conn}

	s.mu.Lock()
	s.clients[c.id] = c
	s.mu.Unlock()

	if s.clientsGauge != nil {
		s.clientsGauge.Inc()
	}
	s.logger.Info("client connected", zap.String("client_id", c.id))
}

// Broadcast builds one text frame carrying payload and writes it to
// every accepted client. Any client whose write fails is closed and
// removed, atomically with the write loop.
func (s *Server) Broadcast(payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, c := range s.clients {
		if err := writeTextFrame(c.conn, payload); err != nil {
			s.logger.Debug("client write failed, dropping client",
				zap.String("client_id", id), zap.Error(err))
			_ = c.conn.Close()
			delete(s.clients, id)
			if s.clientsGauge != nil {
				s.clientsGauge.Dec()
			}
		}
	}
}

// ClientCount returns the current number of accepted clients.
func (s *Server) ClientCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}
