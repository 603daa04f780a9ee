package transport

import (
	"bufio"
	"net"
	"net/textproto"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestHandshakeAndBroadcastRoundTrip(t *testing.T) {
	clientsGauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_clients_connected"})
	srv, err := New("127.0.0.1:0", 8, clientsGauge, zap.NewNop())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_ = listener.Close()
	srv.addr = listener.Addr().String()

	require.True(t, srv.Start())
	defer srv.Stop()

	conn, err := net.Dial("tcp", srv.addr)
	require.NoError(t, err)
	defer conn.Close()

	req := "GET /ws HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"
	_, err = conn.Write([]byte(req))
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	statusLine, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Contains(t, statusLine, "101")

	tp := textproto.NewReader(reader)
	headers, err := tp.ReadMIMEHeader()
	require.NoError(t, err)
	assert.Equal(t, "websocket", headers.Get("Upgrade"))
	assert.Equal(t, "Upgrade", headers.Get("Connection"))
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", headers.Get("Sec-Websocket-Accept"))

	require.Eventually(t, func() bool {
		return srv.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, gaugeValue(t, clientsGauge))

	payload := []byte(`{"type":"telemetry"}`)
	srv.Broadcast(payload)

	header := make([]byte, 2)
	_, err = reader.Read(header)
	require.NoError(t, err)
	assert.Equal(t, byte(0x81), header[0])
	assert.Equal(t, byte(len(payload)), header[1])

	body := make([]byte, len(payload))
	_, err = reader.Read(body)
	require.NoError(t, err)
	assert.Equal(t, payload, body)
}

func TestStopDecrementsClientsGauge(t *testing.T) {
	clientsGauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "test_clients_connected_stop"})
	srv, err := New("127.0.0.1:0", 8, clientsGauge, zap.NewNop())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_ = listener.Close()
	srv.addr = listener.Addr().String()

	require.True(t, srv.Start())

	conn, err := net.Dial("tcp", srv.addr)
	require.NoError(t, err)
	defer conn.Close()

	req := "GET /ws HTTP/1.1\r\n" +
		"Host: localhost\r\n" +
		"Upgrade: websocket\r\n" +
		"Connection: Upgrade\r\n" +
		"Sec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\n" +
		"Sec-WebSocket-Version: 13\r\n\r\n"
	_, err = conn.Write([]byte(req))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return srv.ClientCount() == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 1.0, gaugeValue(t, clientsGauge))

	srv.Stop()
	assert.Equal(t, 0.0, gaugeValue(t, clientsGauge))
}

func TestHandshakeMissingKeyIsRejected(t *testing.T) {
	srv, err := New("127.0.0.1:0", 8, nil, zap.NewNop())
	require.NoError(t, err)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	_ = listener.Close()
	srv.addr = listener.Addr().String()

	require.True(t, srv.Start())
	defer srv.Stop()

	conn, err := net.Dial("tcp", srv.addr)
	require.NoError(t, err)
	defer conn.Close()

	req := "GET /ws HTTP/1.1\r\nHost: localhost\r\n\r\n"
	_, err = conn.Write([]byte(req))
	require.NoError(t, err)

	buf := make([]byte, 16)
	conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
	n, _ := conn.Read(buf)
	assert.Zero(t, n)

	assert.Equal(t, 0, srv.ClientCount())
}
