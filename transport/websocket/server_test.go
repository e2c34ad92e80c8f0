package websocket

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/krizelrika/tictactoe/internal/entity"
)

func TestGenerateAcceptKey(t *testing.T) {
	// Key and accept value from the RFC 6455 opening-handshake example.
	assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", generateAcceptKey("dGhlIHNhbXBsZSBub25jZQ=="))
}

func TestServer_Upgrade(t *testing.T) {
	t.Run("Completes the handshake and answers one action", func(t *testing.T) {
		// Given: a server whose manager mints a session on connect
		server, manager := newTestServer(t)
		manager.On("ConnectSession", mock.Anything, "").Return(entity.NewSession("abc"), nil).Once()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			server.upgradeToWebSocket(context.Background(), w, r)
		}))
		defer srv.Close()

		conn, err := net.Dial("tcp", srv.Listener.Addr().String())
		require.NoError(t, err)
		defer conn.Close()
		require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))

		// When: the client performs the opening handshake
		fmt.Fprintf(conn, "GET /ws HTTP/1.1\r\nHost: %s\r\nUpgrade: websocket\r\nConnection: Upgrade\r\nSec-WebSocket-Key: dGhlIHNhbXBsZSBub25jZQ==\r\nSec-WebSocket-Version: 13\r\n\r\n", srv.Listener.Addr())

		reader := bufio.NewReader(conn)
		resp, err := http.ReadResponse(reader, nil)
		require.NoError(t, err)

		// Then: the upgrade is accepted with the derived key
		require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
		assert.Equal(t, "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=", resp.Header.Get("Sec-WebSocket-Accept"))

		// When: the client sends a masked connect action
		_, err = conn.Write(clientFrame(opText, true, []byte{0x1f, 0x2e, 0x3d, 0x4c}, []byte(`{"action":"connect"}`)))
		require.NoError(t, err)

		// Then: the session comes back in a text frame
		bufrw := bufio.NewReadWriter(reader, bufio.NewWriter(conn))
		raw, err := server.readRequest(bufrw)
		require.NoError(t, err)

		var msg Message
		require.NoError(t, json.Unmarshal(raw, &msg))
		assert.Equal(t, actionConnect, msg.Action)

		var payload Payload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		require.NotNil(t, payload.Session)
		assert.Equal(t, "abc", payload.Session.ID)

		// Close frame ends the server's message loop.
		_, err = conn.Write(clientFrame(opClose, true, []byte{1, 2, 3, 4}, nil))
		require.NoError(t, err)
	})

	t.Run("Rejects a plain HTTP request", func(t *testing.T) {
		// Given: a request without an Upgrade header
		server, _ := newTestServer(t)
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		rec := httptest.NewRecorder()

		// When: it reaches the upgrade endpoint
		server.upgradeToWebSocket(context.Background(), rec, req)

		// Then: it is turned away with a 400
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
