package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcMock returns a server that always answers with result.
func rpcMock(t *testing.T, result string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"jsonrpc":"2.0","id":1,"result":%q}`, result)
	}))
}

// rawServer answers every request with status and body verbatim.
func rawServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
}

// ---------------------------------------------------------------------------
// Call — success path
// ---------------------------------------------------------------------------

func TestCallReturnsResult(t *testing.T) {
	srv := rpcMock(t, "0x1")
	defer srv.Close()

	got, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	require.NoError(t, err)
	assert.Equal(t, "0x1", got)
}

func TestCallSendsEnvelope(t *testing.T) {
	var captured rpcRequest
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x0"}`)
	}))
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_getBalance", "0xabc", "latest")
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "2.0", captured.JSONRPC)
	assert.Equal(t, "eth_getBalance", captured.Method)
	assert.Equal(t, []any{"0xabc", "latest"}, captured.Params)
	assert.NotZero(t, captured.ID)
}

func TestCallNoParamsSendsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x1"}`)
	}))
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(raw["params"]))
}

func TestCallIDsAreUnique(t *testing.T) {
	var mu sync.Mutex
	seen := map[uint64]bool{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		mu.Lock()
		seen[req.ID] = true
		mu.Unlock()
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":"0x1"}`)
	}))
	defer srv.Close()

	c := NewClient()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = c.Call(context.Background(), srv.URL, "eth_chainId")
		}()
	}
	wg.Wait()
	assert.Len(t, seen, 20)
}

// ---------------------------------------------------------------------------
// Call — error classification
// ---------------------------------------------------------------------------

func TestCallNon2xxIsTransportError(t *testing.T) {
	srv := rawServer(t, http.StatusInternalServerError, "upstream exploded")
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusInternalServerError, te.Status)
	assert.Equal(t, "upstream exploded", te.Body)
	assert.Contains(t, te.Error(), "HTTP 500")
}

func TestCallTransportErrorBodyTruncated(t *testing.T) {
	srv := rawServer(t, http.StatusBadGateway, strings.Repeat("x", 4096))
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.LessOrEqual(t, len(te.Body), maxErrorBody+len("…"))
}

func TestCallUnreachableIsTransportError(t *testing.T) {
	_, err := NewClient().Call(context.Background(), "http://127.0.0.1:19991", "eth_chainId")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, 0, te.Status)
}

func TestCallBadJSONIsDecodeError(t *testing.T) {
	srv := rawServer(t, http.StatusOK, "not json {{{")
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "eth_chainId", de.Method)
}

func TestCallMissingResultIsDecodeError(t *testing.T) {
	srv := rawServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1}`)
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_chainId")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestCallNonStringResultIsDecodeError(t *testing.T) {
	srv := rawServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"hash":"0x1"}}`)
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_getBlockByNumber")
	var de *DecodeError
	require.ErrorAs(t, err, &de)
}

func TestCallRemoteErrorSurfaced(t *testing.T) {
	srv := rawServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"execution reverted"}}`)
	defer srv.Close()

	_, err := NewClient().Call(context.Background(), srv.URL, "eth_call")
	var re *RemoteError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, -32000, re.Code)
	assert.Equal(t, "execution reverted", re.Message)
}

func TestCallCancelledContextIsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewClient().Call(ctx, srv.URL, "eth_chainId")
	var te *TransportError
	require.ErrorAs(t, err, &te)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

// ---------------------------------------------------------------------------
// Rate limiting
// ---------------------------------------------------------------------------

func TestRateLimitSpacesCalls(t *testing.T) {
	srv := rpcMock(t, "0x1")
	defer srv.Close()

	c := NewClient(WithRateLimit(20, 1))
	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := c.Call(context.Background(), srv.URL, "eth_chainId")
		require.NoError(t, err)
	}
	// Burst of 1 at 20/s: the 2nd and 3rd calls each wait ~50ms.
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestRateLimitWaitHonoursContext(t *testing.T) {
	srv := rpcMock(t, "0x1")
	defer srv.Close()

	c := NewClient(WithRateLimit(0.01, 1))
	_, err := c.Call(context.Background(), srv.URL, "eth_chainId")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Call(ctx, srv.URL, "eth_chainId")
	var te *TransportError
	require.ErrorAs(t, err, &te)
}

func TestRateLimitZeroDisables(t *testing.T) {
	c := NewClient(WithRateLimit(0, 5))
	assert.Nil(t, c.limits)
}

func TestLimiterPerEndpoint(t *testing.T) {
	s := newLimiterSet(1, 1)
	assert.Same(t, s.get("a"), s.get("a"))
	assert.NotSame(t, s.get("a"), s.get("b"))
}
