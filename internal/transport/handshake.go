package transport

import (
	"bufio"
	"crypto/sha1"
	"encoding/base64"
	"fmt"
	"io"
	"net/textproto"
	"strings"

	"github.com/marketsim/hfengine/internal/engineerr"
)

// websocketMagic is the fixed GUID RFC 6455 defines for computing the
// accept key; it is not a secret, just a well-known constant.
const websocketMagic = "258EAFA5-E914-47DA-95CA-C5AB0DC85B11"

// secWebSocketKeyHeader is the inbound header carrying the client's
// handshake nonce.
const secWebSocketKeyHeader = "Sec-WebSocket-Key"

// acceptKey computes SHA-1(requestKey ++ magic) base64-encoded, the
// value the upgrade response must echo back.
func acceptKey(requestKey string) string {
	h := sha1.New()
	io.WriteString(h, requestKey)
	io.WriteString(h, websocketMagic)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// readUpgradeRequest reads the request line and header block (up to
// the blank line) and returns the parsed headers.
func readUpgradeRequest(r *bufio.Reader) (textproto.MIMEHeader, error) {
	requestLine, err := r.ReadString('\n')
	if err != nil {
		return nil, engineerr.Wrap(err, engineerr.ClientHandshakeFailure, "failed to read request line")
	}
	if !strings.HasPrefix(requestLine, "GET ") {
		return nil, engineerr.New(engineerr.ClientHandshakeFailure, "not a GET upgrade request")
	}

	tp := textproto.NewReader(r)
	headers, err := tp.ReadMIMEHeader()
	if err != nil && err != io.EOF {
		return nil, engineerr.Wrap(err, engineerr.ClientHandshakeFailure, "failed to read headers")
	}
	return headers, nil
}

// writeUpgradeResponse writes the minimal 101 Switching Protocols
// response the spec requires: Upgrade, Connection, and the accept key.
func writeUpgradeResponse(w io.Writer, key string) error {
	response := fmt.Sprintf(
		"HTTP/1.1 101 Switching Protocols\r\n"+
			"Upgrade: websocket\r\n"+
			"Connection: Upgrade\r\n"+
			"Sec-WebSocket-Accept: %s\r\n\r\n",
		acceptKey(key),
	)
	_, err := io.WriteString(w, response)
	return err
}

// performHandshake reads the inbound upgrade request from r, validates
// the key header is present, and writes the 101 response to w.
func performHandshake(r *bufio.Reader, w io.Writer) error {
	headers, err := readUpgradeRequest(r)
	if err != nil {
		return err
	}

	key := headers.Get(secWebSocketKeyHeader)
	if key == "" {
		return engineerr.New(engineerr.ClientHandshakeFailure, "missing Sec-WebSocket-Key header")
	}

	return writeUpgradeResponse(w, key)
}
