package transport

import "net"

// client is one accepted, upgraded connection.
type client struct {
	id   string
	conn net.Conn
}
