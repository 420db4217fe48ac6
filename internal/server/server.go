// Package server glues internal/wire's command grammar to an
// internal/fsnode.FS over a Unix datagram socket, using a fixed pool of
// worker goroutines. Grounded in the teacher's fuse.Server read/handle loop
// (fuse/server.go: Serve/loop/handleRequest), generalized from a FUSE kernel
// channel to a datagram socket and from a sync.WaitGroup join to an
// errgroup.Group.
package server

import (
	"context"
	"log"
	"net"
	"os"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
	"github.com/tecnicofs/tecnicofs/internal/wire"
)

// Server listens on a Unix datagram socket and dispatches each request
// datagram to fs through a fixed pool of worker goroutines, exactly the
// "N worker threads" of spec.md §6's server CLI.
type Server struct {
	fs      *fsnode.FS
	conn    *net.UnixConn
	workers int
	debug   bool
	log     *log.Logger
}

// New binds a datagram socket at sockPath, removing any stale socket file
// left behind by a previous run first — tfsd is not expected to coexist
// with another instance on the same path. Grounded in the teacher's
// low-level socket setup style (fuse/mount.go, vhostuser/util.go), which
// reaches for golang.org/x/sys/unix rather than hand-rolled syscalls.
func New(fs *fsnode.FS, sockPath string, workers int, debug bool, logger *log.Logger) (*Server, error) {
	if err := unix.Unlink(sockPath); err != nil && !os.IsNotExist(err) {
		return nil, err
	}

	addr, err := net.ResolveUnixAddr("unixgram", sockPath)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUnixgram("unixgram", addr)
	if err != nil {
		return nil, err
	}

	if rawConn, err := conn.SyscallConn(); err == nil {
		rawConn.Control(func(fd uintptr) {
			unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_RCVBUF, wire.MaxDatagram*workers)
			unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, wire.MaxDatagram*workers)
		})
	}

	return &Server{fs: fs, conn: conn, workers: workers, debug: debug, log: logger}, nil
}

// Serve runs the worker pool until ctx is canceled, then waits for every
// in-flight worker to finish its current request before returning — no
// operation is interrupted mid-flight, matching spec.md §5's shutdown
// guarantee. Grounded in fuse.Server.Serve/loop, translated from
// loops.Add/loop/loops.Wait into an errgroup.Group.
func (s *Server) Serve(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < s.workers; i++ {
		g.Go(func() error {
			s.loop(ctx)
			return nil
		})
	}

	<-ctx.Done()
	s.conn.Close()
	return g.Wait()
}

func (s *Server) loop(ctx context.Context) {
	buf := make([]byte, wire.MaxDatagram)
	for {
		n, from, err := s.conn.ReadFromUnix(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			s.log.Printf("server: read failed: %v", err)
			return
		}
		s.handleRequest(from, append([]byte(nil), buf[:n]...))
	}
}

func (s *Server) handleRequest(from *net.UnixAddr, payload []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Printf("server: recovered panic handling %q: %v", payload, r)
			s.reply(from, fsnode.BadInumber)
		}
	}()

	req, err := wire.Decode(string(payload))
	if err != nil {
		s.log.Printf("server: %v", err)
		s.reply(from, fsnode.BadParent)
		return
	}

	if s.debug {
		s.log.Printf("server: <- %s", payload)
	}

	status := wire.Apply(s.fs, req)
	if s.debug {
		s.log.Printf("server: -> %s %s", payload, status)
	}
	s.reply(from, status)
}

func (s *Server) reply(to *net.UnixAddr, status fsnode.Status) {
	if to == nil {
		return
	}
	if _, err := s.conn.WriteToUnix([]byte(wire.EncodeStatus(status)), to); err != nil {
		s.log.Printf("server: reply to %v failed: %v", to, err)
	}
}
