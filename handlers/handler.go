// handler.go - HTTP handlers and route table
//
// Route layout:
//   GET  /                         liveness text
//   POST /api/auth/register        public
//   POST /api/auth/login           public
//   GET  /api/auth/profile         bearer
//   /api/journal/*, /api/records/* bearer, scoped to the caller
//   GET  /api/admin/users          bearer + userType=admin

package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-journal-backend/middleware"
	"go-journal-backend/models"
	"go-journal-backend/mqtt"
	"go-journal-backend/registration"
	"go-journal-backend/services"
)

// AuthService is the account use-case surface the handlers need.
type AuthService interface {
	Register(ctx context.Context, in registration.Input) (services.Session, error)
	Login(ctx context.Context, email, password string) (services.Session, error)
	Profile(ctx context.Context, userID string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
}

type JournalStore interface {
	Create(ctx context.Context, owner string, entry models.JournalEntry) (models.JournalEntry, error)
	List(ctx context.Context, owner string, tags models.Tags) ([]models.JournalEntry, error)
	Get(ctx context.Context, owner, id string) (models.JournalEntry, error)
	Update(ctx context.Context, owner, id string, patch models.JournalPatch) (models.JournalEntry, error)
	Delete(ctx context.Context, owner, id string) error
}

type RecordStore interface {
	Create(ctx context.Context, owner string, rec models.ActivityRecord) (models.ActivityRecord, error)
	List(ctx context.Context, owner string, tags models.Tags) ([]models.ActivityRecord, error)
	Get(ctx context.Context, owner, id string) (models.ActivityRecord, error)
	Update(ctx context.Context, owner, id string, patch models.RecordPatch) (models.ActivityRecord, error)
	Delete(ctx context.Context, owner, id string) error
}

// Deps wires the handlers to their collaborators.
type Deps struct {
	Auth           AuthService
	Journal        JournalStore
	Records        RecordStore
	Tokens         middleware.TokenVerifier
	Users          middleware.UserFinder
	Events         mqtt.Publisher // nil means no events
	Log            *logrus.Logger
	AllowedOrigins []string
}

type Handler struct {
	auth    AuthService
	journal JournalStore
	records RecordStore
	tokens  middleware.TokenVerifier
	users   middleware.UserFinder
	events  mqtt.Publisher
	log     *logrus.Logger
	origins []string
}

func NewHandler(d Deps) *Handler {
	events := d.Events
	if events == nil {
		events = mqtt.Nop{}
	}
	return &Handler{
		auth:    d.Auth,
		journal: d.Journal,
		records: d.Records,
		tokens:  d.Tokens,
		users:   d.Users,
		events:  events,
		log:     d.Log,
		origins: d.AllowedOrigins,
	}
}

// InitRoutes builds the gin engine with every route mounted.
func (h *Handler) InitRoutes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(h.log), cors.New(h.corsConfig()))

	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Journal backend is running")
	})

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/profile", middleware.AuthMiddleware(h.tokens), h.profile)
	}

	journal := api.Group("/journal", middleware.AuthMiddleware(h.tokens))
	{
		journal.POST("/add", h.addEntry)
		journal.GET("/all", h.listEntries)
		journal.GET("/:id", h.getEntry)
		journal.PUT("/:id", h.updateEntry)
		journal.DELETE("/:id", h.deleteEntry)
	}

	records := api.Group("/records", middleware.AuthMiddleware(h.tokens))
	{
		records.POST("/add", h.addRecord)
		records.GET("/all", h.listRecords)
		records.GET("/:id", h.getRecord)
		records.PUT("/:id", h.updateRecord)
		records.DELETE("/:id", h.deleteRecord)
	}

	admin := api.Group("/admin", middleware.AdminMiddleware(h.tokens, h.users))
	{
		admin.GET("/users", h.listUsers)
	}

	return r
}

func (h *Handler) corsConfig() cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}

	for _, o := range h.origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(h.origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = h.origins
	return cfg
}

// publish emits a lifecycle event for the caller's entity.
func (h *Handler) publish(c *gin.Context, kind, action, userID, id string) {
	h.events.Publish(c.Request.Context(), mqtt.NewEvent(kind, action, userID, id))
}
