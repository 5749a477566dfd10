// Package sockettrait adds a minimal TCP client object: "tcp_dial" to
// open a connection, and "write"/"read_line"/"close" methods on the
// resulting socket value. Built directly on the standard library's net
// package rather than a third-party client — SPEC_FULL.md's DOMAIN
// STACK section documents this as the one deliberate exception: no pack
// example carries a third-party TCP client library (the examples'
// networking dependencies are all HTTP/gRPC clients, which spec.md's
// Non-goals exclude), so there is nothing to wire a raw socket type to
// except net.Conn itself.
package sockettrait

import (
	"bufio"
	"net"
	"strings"

	"github.com/coilscript/coil/object"
	"github.com/coilscript/coil/op"
	"github.com/coilscript/coil/registry"
)

// socketType is the runtime type id for tcp_dial's result.
const socketType object.Type = "socket"

// Socket wraps a net.Conn as a coil Object. It is a reference type:
// delivery shares the connection rather than duplicating it (dialing a
// second connection on copy would silently diverge from the program's
// intent).
type Socket struct {
	conn   net.Conn
	reader *bufio.Reader
}

func (s *Socket) Type() object.Type { return socketType }
func (s *Socket) Inspect() string   { return "socket(" + s.conn.RemoteAddr().String() + ")" }
func (s *Socket) Interface() any    { return s.conn }
func (s *Socket) IsTruthy() bool    { return true }
func (s *Socket) Equals(o object.Object) bool {
	other, ok := object.Unpack(o).(*Socket)
	return ok && other.conn == s.conn
}

// Register installs the tcp_dial free function and the socket type's
// write/read_line/close methods.
func Register(reg *registry.Registry) {
	reg.RegisterFunction("", "tcp_dial", object.NewNativeFunction(
		"tcp_dial", []string{"address"}, op.Normal, 0, dial))

	reg.RegisterType(string(socketType), registry.TypeTraits{
		Deliver: func(o object.Object) object.Object { return o }, // shared, not copied
		Methods: []string{"write", "read_line", "close"},
	})
	reg.RegisterFunction(string(socketType), "write", object.NewNativeFunction(
		"write", []string{"self", "data"}, op.Normal, 0, write))
	reg.RegisterFunction(string(socketType), "read_line", object.NewNativeFunction(
		"read_line", []string{"self"}, op.Normal, 0, readLine))
	reg.RegisterFunction(string(socketType), "close", object.NewNativeFunction(
		"close", []string{"self"}, op.Normal, 0, closeSocket))
}

func dial(args map[string]object.Object) object.Message {
	addr, ok := object.Unpack(args["address"]).(*object.String)
	if !ok {
		return object.TypeError("tcp_dial", "address must be a string")
	}
	conn, err := net.Dial("tcp", addr.Value())
	if err != nil {
		return object.Errorf(object.IllegalCall, "tcp_dial: "+err.Error())
	}
	return object.Ok(&Socket{conn: conn, reader: bufio.NewReader(conn)})
}

func write(args map[string]object.Object) object.Message {
	self, ok := object.Unpack(args["self"]).(*Socket)
	if !ok {
		return object.TypeError("write", "receiver must be a socket")
	}
	data, ok := object.Unpack(args["data"]).(*object.String)
	if !ok {
		return object.TypeError("write", "argument must be a string")
	}
	n, err := self.conn.Write([]byte(data.Value()))
	if err != nil {
		return object.Errorf(object.IllegalCall, "write: "+err.Error())
	}
	return object.Ok(object.NewInt(int64(n)))
}

func readLine(args map[string]object.Object) object.Message {
	self, ok := object.Unpack(args["self"]).(*Socket)
	if !ok {
		return object.TypeError("read_line", "receiver must be a socket")
	}
	line, err := self.reader.ReadString('\n')
	if err != nil && line == "" {
		return object.Errorf(object.IllegalCall, "read_line: "+err.Error())
	}
	return object.Ok(object.NewString(strings.TrimRight(line, "\r\n")))
}

func closeSocket(args map[string]object.Object) object.Message {
	self, ok := object.Unpack(args["self"]).(*Socket)
	if !ok {
		return object.TypeError("close", "receiver must be a socket")
	}
	if err := self.conn.Close(); err != nil {
		return object.Errorf(object.IllegalCall, "close: "+err.Error())
	}
	return object.Ok(object.Nil)
}
