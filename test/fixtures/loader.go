package fixtures

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// Node is a canned JSON-RPC node: results by method, and eth_call results by
// lowercase "to" address.
type Node struct {
	Results map[string]string `json:"results"`
	Calls   map[string]string `json:"calls"`
}

// LoadNode loads a fixture node description from rpc/<filename>.
func LoadNode(t *testing.T, filename string) Node {
	t.Helper()
	path := filepath.Join(fixturesDir(), "rpc", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture node: %s", filename)

	var n Node
	require.NoError(t, json.Unmarshal(data, &n))
	return n
}

// Serve starts an httptest JSON-RPC server answering from n. Unknown
// methods get a JSON-RPC error object; unknown eth_call targets get "0x".
func (n Node) Serve(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ID     uint64            `json:"id"`
			Method string            `json:"method"`
			Params []json.RawMessage `json:"params"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case req.Method == "eth_call":
			var call struct {
				To string `json:"to"`
			}
			if len(req.Params) > 0 {
				_ = json.Unmarshal(req.Params[0], &call)
			}
			result, ok := n.Calls[strings.ToLower(call.To)]
			if !ok {
				result = "0x"
			}
			resp["result"] = result
		case n.Results[req.Method] != "":
			resp["result"] = n.Results[req.Method]
		default:
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Failing starts a server that answers every request with status.
func Failing(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, http.StatusText(status), status)
	}))
	t.Cleanup(srv.Close)
	return srv
}

// ConfigDir writes body as config.toml into a fresh temp dir and returns it.
// Every "{{name}}" in body is replaced with urls[name].
func ConfigDir(t *testing.T, body string, urls map[string]string) string {
	t.Helper()
	for name, url := range urls {
		body = strings.ReplaceAll(body, "{{"+name+"}}", url)
	}
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(body), 0o600))
	return dir
}
