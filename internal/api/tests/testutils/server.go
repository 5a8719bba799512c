package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matchbook/clob/internal/api/handlers"
	"github.com/matchbook/clob/internal/api/routes"
	"github.com/matchbook/clob/internal/matching"
)

// TestSymbol is the symbol every test engine matches
const TestSymbol = "BTC-USDT"

// TestServer wraps a test HTTP server with the matching engine
type TestServer struct {
	Server *httptest.Server
	Engine *matching.Engine
	t      testing.TB
}

// NewTestServer creates a new test server with a fresh engine
func NewTestServer(t testing.TB) *TestServer {
	engine := matching.NewEngine(TestSymbol)

	engineHolder := handlers.NewEngineHolder(engine)
	handler := routes.SetupRoutes(engineHolder, routes.Options{})
	server := httptest.NewServer(handler)

	return &TestServer{
		Server: server,
		Engine: engine,
		t:      t,
	}
}

// Close cleans up the test server
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Engine.Close()
}

// URL returns the base URL for the test server
func (ts *TestServer) URL() string {
	return ts.Server.URL
}

// Get makes a GET request to the test server
func (ts *TestServer) Get(path string) *http.Response {
	resp, err := http.Get(ts.URL() + path)
	require.NoError(ts.t, err, "GET request failed")
	return resp
}

// Post makes a POST request with JSON body
func (ts *TestServer) Post(path string, body interface{}) *http.Response {
	jsonBody, err := json.Marshal(body)
	require.NoError(ts.t, err, "Failed to marshal request body")

	resp, err := http.Post(ts.URL()+path, "application/json", bytes.NewBuffer(jsonBody))
	require.NoError(ts.t, err, "POST request failed")
	return resp
}

// DecodeJSON decodes JSON response into target
func DecodeJSON(t testing.TB, resp *http.Response, target interface{}) {
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	err = json.Unmarshal(body, target)
	require.NoError(t, err, "Failed to decode JSON response: %s", string(body))
}
