package sheet

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

func newTestGoogleSheet(t *testing.T, handler http.HandlerFunc) *GoogleSheet {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	g, err := NewGoogleSheet(context.Background(),
		GoogleSheetsConfig{SpreadsheetID: "sheet-1", SheetID: 0},
		option.WithEndpoint(server.URL+"/"),
		option.WithHTTPClient(server.Client()),
	)
	require.NoError(t, err)
	return g
}

func TestGoogleSheetGetRange(t *testing.T) {
	t.Parallel()

	var gotPath string
	g := newTestGoogleSheet(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"range":"A1:Z2","majorDimension":"ROWS","values":[["Codigo","Fecha"],["ANA-1","10/03/2025"]]}`)
	})

	rows, err := g.GetRange(context.Background(), AllColumns)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Codigo", "Fecha"}, {"ANA-1", "10/03/2025"}}, rows)
	assert.True(t, strings.HasPrefix(gotPath, "/v4/spreadsheets/sheet-1/values/"), gotPath)
}

func TestGoogleSheetDeleteRowSendsZeroSheetID(t *testing.T) {
	t.Parallel()

	var body map[string]any
	g := newTestGoogleSheet(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"spreadsheetId":"sheet-1"}`)
	})

	require.NoError(t, g.DeleteRow(context.Background(), 3))

	requests := body["requests"].([]any)
	rng := requests[0].(map[string]any)["deleteDimension"].(map[string]any)["range"].(map[string]any)
	assert.Equal(t, float64(0), rng["sheetId"])
	assert.Equal(t, "ROWS", rng["dimension"])
	assert.Equal(t, float64(3), rng["startIndex"])
	assert.Equal(t, float64(4), rng["endIndex"])
}

func TestGoogleSheetAppendUsesRawInsert(t *testing.T) {
	t.Parallel()

	var query map[string][]string
	g := newTestGoogleSheet(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"spreadsheetId":"sheet-1"}`)
	})

	require.NoError(t, g.AppendRow(context.Background(), []string{"ANA-1", "Ana"}))
	assert.Equal(t, []string{"RAW"}, query["valueInputOption"])
	assert.Equal(t, []string{"INSERT_ROWS"}, query["insertDataOption"])
}

func TestNewGoogleSheetRequiresSpreadsheetID(t *testing.T) {
	t.Parallel()

	_, err := NewGoogleSheet(context.Background(), GoogleSheetsConfig{})
	assert.Error(t, err)
}
