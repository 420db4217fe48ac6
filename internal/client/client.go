// Package client is the caller-facing shim for talking to a tfsd server
// over its Unix datagram socket. Grounded in tecnicofs-client-api.c's
// tfsMount/tfsCreate/tfsDelete/tfsMove/tfsPrint/tfsLookup/tfsUnmount, each
// reimplemented as a method on a *Client instead of operating through file
// static globals and a single implicit connection — the teacher's own
// preference for struct-scoped state over globals (fuse/nodefs throughout).
package client

import (
	"fmt"
	"math/rand"
	"net"
	"os"

	"github.com/tecnicofs/tecnicofs/internal/fsnode"
	"github.com/tecnicofs/tecnicofs/internal/wire"
)

// Client holds one datagram socket connected to a server's socket path.
// Grounded in tfsMount/tfsUnmount's create/bind/close pair; the client's
// own bind address is a per-client Linux abstract socket name, the
// counterpart of the source's tmpnam-generated socket path, and needs no
// file cleanup on Unmount.
type Client struct {
	conn *net.UnixConn
}

// Mount opens a datagram socket bound to a fresh local address, which the
// server replies to, and connects it to sockPath, so every subsequent send
// can use Write instead of re-specifying the peer address.
func Mount(sockPath string) (*Client, error) {
	serverAddr, err := net.ResolveUnixAddr("unixgram", sockPath)
	if err != nil {
		return nil, err
	}
	// An unbound datagram socket has no address the server could reply to.
	localAddr := &net.UnixAddr{
		Name: fmt.Sprintf("@tecnicofs-client-%d-%x", os.Getpid(), rand.Int63()),
		Net:  "unixgram",
	}
	conn, err := net.DialUnix("unixgram", localAddr, serverAddr)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn}, nil
}

// Unmount closes the client's socket. Grounded in tfsUnmount.
func (c *Client) Unmount() error {
	return c.conn.Close()
}

// send transmits req and parses the single response datagram's status.
func (c *Client) send(req wire.Request) (fsnode.Status, error) {
	payload := wire.Encode(req)
	if _, err := c.conn.Write([]byte(payload)); err != nil {
		return 0, fmt.Errorf("client: send %q: %w", payload, err)
	}

	buf := make([]byte, wire.MaxDatagram)
	n, err := c.conn.Read(buf)
	if err != nil {
		return 0, fmt.Errorf("client: recv for %q: %w", payload, err)
	}
	return wire.DecodeStatus(string(buf[:n]))
}

// Create asks the server to create a node of kind at path. Grounded in
// tfsCreate. Returns the server's reply as an int: 0 on success, since the
// create reply does not carry the new inumber (use Lookup for that).
func (c *Client) Create(path string, kind fsnode.Type) (int, error) {
	status, err := c.send(wire.Request{Op: wire.OpCreate, Path: path, Type: kind})
	return int(status), wrapStatus("create", path, status, err)
}

// Delete asks the server to remove path. Grounded in tfsDelete.
func (c *Client) Delete(path string) error {
	status, err := c.send(wire.Request{Op: wire.OpDelete, Path: path})
	return wrapStatus("delete", path, status, err)
}

// Lookup asks the server to resolve path. Grounded in tfsLookup. Returns
// the terminal inumber, or a negative fsnode.Status on failure — mirroring
// the source's plain int return, callers distinguish success from failure
// with fsnode.Status(n).Ok().
func (c *Client) Lookup(path string) (int, error) {
	status, err := c.send(wire.Request{Op: wire.OpLookup, Path: path})
	if err != nil {
		return 0, err
	}
	return int(status), nil
}

// Move asks the server to move oldPath to newPath. Grounded in tfsMove.
func (c *Client) Move(oldPath, newPath string) error {
	status, err := c.send(wire.Request{Op: wire.OpMove, Path: oldPath, NewPath: newPath})
	return wrapStatus("move", oldPath+" -> "+newPath, status, err)
}

// Print asks the server to snapshot its tree to outputPath, a path on the
// server's own filesystem. Grounded in tfsPrint.
func (c *Client) Print(outputPath string) error {
	status, err := c.send(wire.Request{Op: wire.OpPrint, Path: outputPath})
	return wrapStatus("print", outputPath, status, err)
}

func wrapStatus(op, path string, status fsnode.Status, err error) error {
	if err != nil {
		return err
	}
	if !status.Ok() {
		return fmt.Errorf("client: %s %s: %s", op, path, status)
	}
	return nil
}
