package httpapi

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/mattn/go-sqlite3"

	"github.com/guilherme-santos/tabcalendar/internal/sqlstore"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestServer(t *testing.T) *Server {
	t.Helper()

	db, err := sql.Open(sqlstore.SQLiteDriver, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	storage := sqlstore.NewStorage(db, sqlstore.SQLiteDriver)
	if err := storage.CreateSchema(); err != nil {
		t.Fatalf("creating schema: %v", err)
	}
	for _, email := range []string{"a@x.com", "b@x.com"} {
		if _, err := db.Exec(`INSERT INTO users (email) VALUES ($1)`, email); err != nil {
			t.Fatalf("inserting user: %v", err)
		}
	}

	return NewServer(storage, nil, testSecret)
}

func tokenFor(t *testing.T, email string) string {
	t.Helper()

	token, err := GenerateJWT(testSecret, email, time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		reqBody.WriteString(v)
	default:
		if err := json.NewEncoder(&reqBody).Encode(v); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var result map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding JSON: %v, body=%s", err, w.Body.String())
	}
	return result
}

func parseJSONArray(t *testing.T, w *httptest.ResponseRecorder) []map[string]any {
	t.Helper()

	var result []map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding JSON array: %v, body=%s", err, w.Body.String())
	}
	return result
}

func createEvent(t *testing.T, s *Server, token, path string, body map[string]any) map[string]any {
	t.Helper()

	w := doRequest(t, s, http.MethodPost, path, token, body)
	if w.Code != http.StatusCreated {
		t.Fatalf("creating event: status %d, body=%s", w.Code, w.Body.String())
	}
	return parseJSON(t, w)
}

func TestHealthCheck(t *testing.T) {
	s := setupTestServer(t)

	w := doRequest(t, s, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want %d", w.Code, http.StatusOK)
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("request id header not set")
	}
}

func TestAuthentication(t *testing.T) {
	s := setupTestServer(t)

	expired, err := GenerateJWT(testSecret, "a@x.com", -time.Minute)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}
	forged, err := GenerateJWT("other-secret", "a@x.com", time.Hour)
	if err != nil {
		t.Fatalf("generating token: %v", err)
	}

	tests := map[string]string{
		"no token":      "",
		"garbage token": "not-a-jwt",
		"expired token": expired,
		"wrong secret":  forged,
		"unknown user":  tokenFor(t, "nobody@x.com"),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodGet, "/api/v1/calendar/main/5", token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want %d, body=%s", w.Code, http.StatusUnauthorized, w.Body.String())
			}
		})
	}
}

func TestCreateAndUpdateScenario(t *testing.T) {
	s := setupTestServer(t)
	token := tokenFor(t, "a@x.com")

	created := createEvent(t, s, token, "/api/v1/calendar/main/5", map[string]any{
		"event_name": "Standup",
		"date":       "2024-01-10",
	})
	if created["event_name"] != "Standup" {
		t.Errorf("event_name: got %v, want Standup", created["event_name"])
	}
	if created["date"] != "2024-01-10T00:00:00Z" {
		t.Errorf("date: got %v, want 2024-01-10T00:00:00Z", created["date"])
	}
	if created["main_id"] != float64(5) {
		t.Errorf("main_id: got %v, want 5", created["main_id"])
	}
	if created["sub_id"] != nil {
		t.Errorf("sub_id: got %v, want null", created["sub_id"])
	}
	id, ok := created["id"].(float64)
	if !ok || id == 0 {
		t.Fatalf("id: got %v", created["id"])
	}

	w := doRequest(t, s, http.MethodPatch, "/api/v1/calendar/events/"+jsonID(created), token, map[string]any{
		"event_name": "Standup v2",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	updated := parseJSON(t, w)
	if updated["event_name"] != "Standup v2" {
		t.Errorf("event_name: got %v, want Standup v2", updated["event_name"])
	}
	if updated["date"] != "2024-01-10T00:00:00Z" {
		t.Errorf("date: got %v, want unchanged date", updated["date"])
	}
}

func TestCreateEvent_Validation(t *testing.T) {
	s := setupTestServer(t)
	token := tokenFor(t, "a@x.com")

	tests := map[string]struct {
		body any
		want string
	}{
		"missing name":  {map[string]any{"date": "2024-01-10"}, "Required field - event_name - missing from request body."},
		"empty name":    {map[string]any{"event_name": "", "date": "2024-01-10"}, "Required field - event_name - missing from request body."},
		"missing date":  {map[string]any{"event_name": "Standup"}, "Required field - date - missing from request body."},
		"empty date":    {map[string]any{"event_name": "Standup", "date": ""}, "Required field - date - missing from request body."},
		"bad date":      {map[string]any{"event_name": "Standup", "date": "tomorrow"}, ""},
		"not json":      {"{", ""},
		"wrong id type": {map[string]any{"event_name": "Standup", "date": "2024-01-10", "task_id": "x"}, ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodPost, "/api/v1/calendar/sub/3", token, tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want %d, body=%s", w.Code, http.StatusBadRequest, w.Body.String())
			}
			if tt.want != "" {
				if got := parseJSON(t, w)["error"]; got != tt.want {
					t.Errorf("error: got %v, want %q", got, tt.want)
				}
			}
		})
	}

	w := doRequest(t, s, http.MethodGet, "/api/v1/calendar/sub/3", token, nil)
	if events := parseJSONArray(t, w); len(events) != 0 {
		t.Errorf("events created by invalid requests: %v", events)
	}
}

func TestListEvents(t *testing.T) {
	s := setupTestServer(t)
	alice := tokenFor(t, "a@x.com")
	bob := tokenFor(t, "b@x.com")

	createEvent(t, s, alice, "/api/v1/calendar/sub/7", map[string]any{"event_name": "later", "date": "2024-03-01"})
	createEvent(t, s, alice, "/api/v1/calendar/sub/7", map[string]any{"event_name": "sooner", "date": "2024-01-01T08:00:00Z", "task_id": 12, "notes": "n"})
	createEvent(t, s, alice, "/api/v1/calendar/main/7", map[string]any{"event_name": "main tab", "date": "2024-01-02"})
	createEvent(t, s, bob, "/api/v1/calendar/sub/7", map[string]any{"event_name": "bob's", "date": "2024-01-02"})

	w := doRequest(t, s, http.MethodGet, "/api/v1/calendar/sub/7", alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body=%s", w.Code, w.Body.String())
	}
	events := parseJSONArray(t, w)
	if len(events) != 2 {
		t.Fatalf("events: got %d, want 2: %v", len(events), events)
	}
	if events[0]["event_name"] != "sooner" || events[1]["event_name"] != "later" {
		t.Errorf("order: got %v, %v", events[0]["event_name"], events[1]["event_name"])
	}
	if events[0]["task_id"] != float64(12) || events[0]["notes"] != "n" {
		t.Errorf("optional fields: got task_id=%v notes=%v", events[0]["task_id"], events[0]["notes"])
	}

	w = doRequest(t, s, http.MethodGet, "/api/v1/calendar/main/99", alice, nil)
	if w.Code != http.StatusOK || w.Body.String() != "[]" {
		t.Errorf("empty container: status %d, body=%s", w.Code, w.Body.String())
	}

	w = doRequest(t, s, http.MethodGet, "/api/v1/calendar/main/abc", alice, nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("non numeric id: status %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUpdateEvent(t *testing.T) {
	s := setupTestServer(t)
	alice := tokenFor(t, "a@x.com")
	bob := tokenFor(t, "b@x.com")

	created := createEvent(t, s, alice, "/api/v1/calendar/main/1", map[string]any{"event_name": "Standup", "date": "2024-01-10"})
	path := "/api/v1/calendar/events/" + jsonID(created)

	w := doRequest(t, s, http.MethodPatch, path, alice, map[string]any{"date": "2024-01-11"})
	if w.Code != http.StatusOK {
		t.Fatalf("date only: status %d, body=%s", w.Code, w.Body.String())
	}
	if got := parseJSON(t, w); got["event_name"] != "Standup" || got["date"] != "2024-01-11T00:00:00Z" {
		t.Errorf("date only: got %v", got)
	}

	w = doRequest(t, s, http.MethodPatch, path, alice, map[string]any{"notes": "just notes"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("neither name nor date: status %d, want %d", w.Code, http.StatusBadRequest)
	}

	w = doRequest(t, s, http.MethodPatch, path, bob, map[string]any{"event_name": "mine now"})
	if w.Code != http.StatusForbidden {
		t.Errorf("other user: status %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doRequest(t, s, http.MethodPatch, "/api/v1/calendar/events/999", alice, map[string]any{"event_name": "x"})
	if w.Code != http.StatusNotFound {
		t.Errorf("unknown event: status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func TestDeleteEvent(t *testing.T) {
	s := setupTestServer(t)
	alice := tokenFor(t, "a@x.com")
	bob := tokenFor(t, "b@x.com")

	created := createEvent(t, s, alice, "/api/v1/calendar/main/1", map[string]any{"event_name": "Standup", "date": "2024-01-10"})
	path := "/api/v1/calendar/events/" + jsonID(created)

	w := doRequest(t, s, http.MethodDelete, path, bob, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("other user: status %d, want %d", w.Code, http.StatusForbidden)
	}

	w = doRequest(t, s, http.MethodDelete, path, alice, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("owner: status %d, body=%s", w.Code, w.Body.String())
	}
	if got := parseJSON(t, w); got["event_name"] != "Standup" {
		t.Errorf("deleted event: got %v", got)
	}

	w = doRequest(t, s, http.MethodDelete, path, alice, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("already deleted: status %d, want %d", w.Code, http.StatusNotFound)
	}
}

func jsonID(event map[string]any) string {
	b, _ := json.Marshal(event["id"])
	return string(b)
}
