package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"os"
	"testing"
	"time"

	"github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerOverConnection(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	s, err := NewServer(DefaultServerOptions)
	require.NoError(t, err)
	s.exit = func(int) {}

	serverSide, clientSide := net.Pipe()

	serverConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(NewStream(serverSide, serverSide), jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(s.Handle),
	)
	defer serverConn.Close()

	received := make(chan *jsonrpc2.Request, 4)
	clientConn := jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(NewStream(clientSide, clientSide), jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (interface{}, error) {
			received <- req
			return nil, nil
		}),
	)
	defer clientConn.Close()

	var res lsp.InitializeResult
	require.NoError(t, clientConn.Call(ctx, "initialize", lsp.InitializeParams{}, &res))
	require.NotNil(t, res.Capabilities.TextDocumentSync)
	require.NotNil(t, res.Capabilities.TextDocumentSync.Kind)
	assert.Equal(t, lsp.TDSKFull, *res.Capabilities.TextDocumentSync.Kind)

	uri := lsp.DocumentURI("file:///work/foo.F90")
	require.NoError(t, clientConn.Notify(ctx, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, Text: incomplete},
	}))

	select {
	case req := <-received:
		assert.Equal(t, "textDocument/publishDiagnostics", req.Method)
		require.NotNil(t, req.Params)

		var params lsp.PublishDiagnosticsParams
		require.NoError(t, json.Unmarshal(*req.Params, &params))
		assert.Equal(t, uri, params.URI)
		assert.Len(t, params.Diagnostics, 1)
	case <-ctx.Done():
		t.Fatal("no diagnostics published")
	}
}

type countingConn struct {
	closed int
	err    error
}

func (c *countingConn) Read([]byte) (int, error)    { return 0, nil }
func (c *countingConn) Write(p []byte) (int, error) { return len(p), nil }
func (c *countingConn) Close() error {
	c.closed++
	return c.err
}

func TestStreamClose(t *testing.T) {
	t.Run("shared connection is closed once", func(t *testing.T) {
		c := &countingConn{}
		s := NewStream(c, c)
		require.NoError(t, s.Close())
		require.NoError(t, s.Close())
		assert.Equal(t, 1, c.closed)
	})

	t.Run("separate halves are both closed", func(t *testing.T) {
		r, w := &countingConn{}, &countingConn{}
		require.NoError(t, NewStream(r, w).Close())
		assert.Equal(t, 1, r.closed)
		assert.Equal(t, 1, w.closed)
	})

	t.Run("already closed files are ignored", func(t *testing.T) {
		r, w, err := os.Pipe()
		require.NoError(t, err)
		require.NoError(t, r.Close())
		require.NoError(t, w.Close())
		assert.NoError(t, NewStream(r, w).Close())
	})

	t.Run("close errors are reported", func(t *testing.T) {
		r := &countingConn{err: errors.New("broken pipe")}
		w := &countingConn{}
		err := NewStream(r, w).Close()
		assert.ErrorContains(t, err, "broken pipe")
		assert.Equal(t, 1, w.closed)
	})
}
