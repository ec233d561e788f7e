package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-journal-backend/models"
)

func addRecord(t *testing.T, app testApp, token string, in RecordInput) models.ActivityRecord {
	t.Helper()
	w := app.do(t, http.MethodPost, "/api/records/add", token, in)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Message string                `json:"message"`
		Record  models.ActivityRecord `json:"record"`
	}
	decode(t, w, &resp)
	assert.Equal(t, "Record saved successfully!", resp.Message)
	return resp.Record
}

func TestRecordsLifecycle(t *testing.T) {
	app := setupApp(t)
	token := app.signup(t, "rec@example.com")

	older := addRecord(t, app, token, RecordInput{Title: "Breathing", Type: "breathing", Date: "2024-05-01"})
	newer := addRecord(t, app, token, RecordInput{Title: "Peer talk", Type: "peer", Date: "2024-05-03"})

	w := app.do(t, http.MethodGet, "/api/records/all", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var recs []models.ActivityRecord
	decode(t, w, &recs)
	require.Len(t, recs, 2)
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.Equal(t, older.ID, recs[1].ID)

	w = app.do(t, http.MethodPut, "/api/records/"+older.ID, token, map[string]string{"description": "10 minutes"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var upd struct {
		Record models.ActivityRecord `json:"record"`
	}
	decode(t, w, &upd)
	assert.Equal(t, "10 minutes", upd.Record.Description)
	assert.Equal(t, "Breathing", upd.Record.Title)

	w = app.do(t, http.MethodDelete, "/api/records/"+older.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(t, http.MethodGet, "/api/records/"+older.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Record not found"}`, w.Body.String())

	assert.Equal(t, []string{"record.created", "record.created", "record.updated", "record.deleted"}, app.events.names())
}

func TestRecordsEmptyBodyAccepted(t *testing.T) {
	app := setupApp(t)
	token := app.signup(t, "rec@example.com")

	rec := addRecord(t, app, token, RecordInput{})
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, models.Tags{}, rec.Tags)
}

func TestRecordsScopedToOwner(t *testing.T) {
	app := setupApp(t)
	alice := app.signup(t, "alice@example.com")
	bob := app.signup(t, "bob@example.com")

	rec := addRecord(t, app, alice, RecordInput{Title: "mine"})

	w := app.do(t, http.MethodGet, "/api/records/all", bob, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		w = app.do(t, method, "/api/records/"+rec.ID, bob, map[string]string{})
		assert.Equal(t, http.StatusNotFound, w.Code, method)
	}

	w = app.do(t, http.MethodPost, "/api/records/add", "", RecordInput{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
