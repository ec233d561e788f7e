package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-journal-backend/auth"
	"go-journal-backend/config"
	"go-journal-backend/database"
	"go-journal-backend/logger"
	"go-journal-backend/mqtt"
	"go-journal-backend/registration"
	"go-journal-backend/services"
	"go-journal-backend/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// recorder keeps published events for assertions.
type recorder struct {
	mu     sync.Mutex
	events []mqtt.Event
}

func (r *recorder) Publish(_ context.Context, ev mqtt.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) Close() {}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Name)
	}
	return out
}

type testApp struct {
	router *gin.Engine
	svc    *services.AuthService
	users  *store.Users
	events *recorder
}

func setupApp(t *testing.T) testApp {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", name)
	db, err := database.Connect(config.Database{Driver: config.DriverSQLite, Path: dsn}, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	users := store.NewUsers(db)
	tokens, err := auth.NewTokenIssuer("test-secret")
	require.NoError(t, err)
	svc, err := services.NewAuthService(users, registration.NewValidator(users, "US"), auth.NewPasswordHasher(bcrypt.MinCost), tokens, logger.Discard())
	require.NoError(t, err)

	events := &recorder{}
	h := NewHandler(Deps{
		Auth:           svc,
		Journal:        store.NewJournal(db),
		Records:        store.NewRecords(db),
		Tokens:         tokens,
		Users:          users,
		Events:         events,
		Log:            logger.Discard(),
		AllowedOrigins: []string{"*"},
	})

	return testApp{router: h.InitRoutes(), svc: svc, users: users, events: events}
}

// do sends a JSON request; body may be nil.
func (a testApp) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}

func student(email string) registration.Input {
	return registration.Input{
		FirstName:       "Test",
		LastName:        "Student",
		Email:           email,
		PhoneNumber:     "0123456789",
		UserType:        "student",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		StudentID:       "S-1",
		Course:          "Psychology",
	}
}

// signup registers email through the API and returns its token.
func (a testApp) signup(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/register", "", student(email))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}
