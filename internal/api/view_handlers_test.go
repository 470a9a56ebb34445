package api_test

import (
	"net/http"
	"testing"

	"github.com/isayev/coinstack-sub001/internal/columns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type selectionBody struct {
	IDs       []int64 `json:"ids"`
	Count     int     `json:"count"`
	Selecting bool    `json:"selecting"`
}

func TestColumnEndpoints(t *testing.T) {
	router, _ := setupTestServer(t, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/view/columns", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	all := decode[[]columns.Column](t, rr)
	assert.Len(t, all, len(columns.Defaults()))

	rr = doJSON(t, router, http.MethodPut, "/api/view/columns/weight/visibility", map[string]bool{"visible": true})
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/api/view/columns?visible=true", nil)
	ids := []string{}
	for _, c := range decode[[]columns.Column](t, rr) {
		ids = append(ids, c.ID)
	}
	assert.Contains(t, ids, "weight")

	rr = doJSON(t, router, http.MethodPost, "/api/view/columns/weight/toggle", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	for _, c := range decode[[]columns.Column](t, rr) {
		if c.ID == "weight" {
			assert.False(t, c.Visible)
		}
	}

	rr = doJSON(t, router, http.MethodPut, "/api/view/columns/nope/visibility", map[string]bool{"visible": true})
	assert.Equal(t, http.StatusNotFound, rr.Code)
	rr = doJSON(t, router, http.MethodPut, "/api/view/columns/weight/visibility", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestReorderColumns(t *testing.T) {
	router, app := setupTestServer(t, nil)
	before := app.Columns().Columns()

	rr := doJSON(t, router, http.MethodPost, "/api/view/columns/reorder", map[string]int{"from": 0, "to": 2})
	require.Equal(t, http.StatusOK, rr.Code)
	after := decode[[]columns.Column](t, rr)
	assert.Equal(t, before[0].ID, after[2].ID)
	assert.Equal(t, before[1].ID, after[0].ID)

	rr = doJSON(t, router, http.MethodPost, "/api/view/columns/reorder", map[string]int{"from": 0, "to": 99})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, after, app.Columns().Columns())

	rr = doJSON(t, router, http.MethodPost, "/api/view/columns/reset", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, columns.Defaults(), app.Columns().Columns())
}

func TestSelectionEndpoints(t *testing.T) {
	router, _ := setupTestServer(t, nil)

	rr := doJSON(t, router, http.MethodGet, "/api/view/selection", nil)
	body := decode[selectionBody](t, rr)
	assert.Empty(t, body.IDs)
	assert.False(t, body.Selecting)

	rr = doJSON(t, router, http.MethodPost, "/api/view/selection/toggle", map[string]int64{"id": 5})
	body = decode[selectionBody](t, rr)
	assert.Equal(t, []int64{5}, body.IDs)
	assert.True(t, body.Selecting)

	rr = doJSON(t, router, http.MethodPost, "/api/view/selection/range",
		map[string]any{"start": 40, "end": 20, "ids": []int64{10, 20, 30, 40, 50}})
	body = decode[selectionBody](t, rr)
	assert.Equal(t, []int64{5, 20, 30, 40}, body.IDs)

	rr = doJSON(t, router, http.MethodPost, "/api/view/selection/deselect", map[string]int64{"id": 30})
	body = decode[selectionBody](t, rr)
	assert.Equal(t, 3, body.Count)

	rr = doJSON(t, router, http.MethodPost, "/api/view/selection/select", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/api/view/selection/all", map[string]any{"ids": []int64{3, 1, 2}})
	body = decode[selectionBody](t, rr)
	assert.Equal(t, []int64{1, 2, 3}, body.IDs)

	rr = doJSON(t, router, http.MethodDelete, "/api/view/selection", nil)
	body = decode[selectionBody](t, rr)
	assert.Zero(t, body.Count)
	assert.False(t, body.Selecting)
}
