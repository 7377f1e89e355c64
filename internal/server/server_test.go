package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmelo/tabcat/internal/table"
)

func testServer() *Server {
	tbl := table.New("fixture")
	tbl.Append("col1", table.Int(1))
	tbl.Append("col2", table.Str("value1"))
	tbl.Append("col1", table.Int(2))
	tbl.Append("col2", table.Str("value2"))
	return New(tbl, nil)
}

func TestHandleQuery(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	body := `{"query": "PROJECT col1, col2 FILTER col2 = \"value1\""}`
	resp, err := http.Post(ts.URL+"/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Columns []string         `json:"columns"`
		Rows    []map[string]any `json:"rows"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))

	assert.Equal(t, []string{"col1", "col2"}, got.Columns)
	require.Len(t, got.Rows, 1)
	// JSON numbers decode as float64.
	assert.Equal(t, map[string]any{"col1": float64(1), "col2": "value1"}, got.Rows[0])
}

func TestHandleQuery_ParseError(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	body := `{"query": "PROJECT FILTER"}`
	resp, err := http.Post(ts.URL+"/query", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var got struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Contains(t, got.Error, "parsing failed")
}

func TestHandleQuery_BadBody(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/query", "application/json", strings.NewReader("{"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandleColumns(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/columns")
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got struct {
		Table   string   `json:"table"`
		Columns []string `json:"columns"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "fixture", got.Table)
	assert.Equal(t, []string{"col1", "col2"}, got.Columns)
}

func TestHandleQuery_MethodNotAllowed(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/query")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
