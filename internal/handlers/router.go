package handlers

import (
	"net/http"

	"couple-journal-backend/internal/metrics"
	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

// Deps collects everything the router serves. OAuth, Media and DB are optional.
type Deps struct {
	Users    *services.UserService
	OAuth    *services.OAuthService
	Couples  *services.CoupleService
	Messages *services.MessageService
	Diary    *services.DiaryService
	Events   *services.EventService
	Bucket   *services.BucketListService
	Moods    *services.MoodService
	Places   *services.PlaceService
	Expenses *services.ExpenseService
	Media    *services.MediaService
	Hub      *services.WSHub
	Limiter  *middleware.RateLimiter
	DB       Pinger
}

// NewRouter builds the HTTP routes.
func NewRouter(d Deps) http.Handler {
	userHandler := NewUserHandler(d.Users)
	coupleHandler := NewCoupleHandler(d.Couples)
	messageHandler := NewMessageHandler(d.Messages)
	diaryHandler := NewDiaryHandler(d.Diary)
	eventHandler := NewEventHandler(d.Events)
	bucketHandler := NewBucketListHandler(d.Bucket)
	moodHandler := NewMoodHandler(d.Moods)
	placeHandler := NewPlaceHandler(d.Places)
	expenseHandler := NewExpenseHandler(d.Expenses)
	media := d.Media
	if media == nil {
		media = services.NewMediaService(nil, d.Couples, "", "")
	}
	uploadHandler := NewUploadHandler(media)
	wsHandler := NewWebSocketHandler(d.Hub, d.Users, d.Couples)
	healthHandler := NewHealthHandler(d.DB)

	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)
	r.Use(metrics.InstrumentHandler)

	limited := func(h http.HandlerFunc) http.Handler {
		if d.Limiter == nil {
			return h
		}
		return d.Limiter.Handler(h)
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Method(http.MethodPost, "/auth/register", limited(userHandler.Register))
		r.Method(http.MethodPost, "/auth/login", limited(userHandler.Login))
		if d.OAuth != nil {
			oauthHandler := NewOAuthHandler(d.OAuth)
			r.Get("/auth/google/login", oauthHandler.Login)
			r.Get("/auth/google/callback", oauthHandler.Callback)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(d.Users))

			r.Get("/users/me", userHandler.Me)
			r.Put("/users/me", userHandler.UpdateMe)
			r.Put("/users/me/push-token", userHandler.SetPushToken)

			r.Route("/couples", func(r chi.Router) {
				r.Get("/", coupleHandler.GetCouple)
				r.Post("/", coupleHandler.CreateCouple)
				r.Put("/", coupleHandler.UpdateCouple)
				r.Delete("/", coupleHandler.DeleteCouple)
			})

			r.Route("/messages", func(r chi.Router) {
				r.Get("/", messageHandler.List)
				r.Post("/", messageHandler.Create)
				r.Put("/", messageHandler.Update)
				r.Delete("/", messageHandler.Delete)
				r.Put("/{id}", messageHandler.MarkRead)
				r.Delete("/{id}", messageHandler.Delete)
			})

			r.Route("/diary", func(r chi.Router) {
				r.Get("/", diaryHandler.List)
				r.Post("/", diaryHandler.Create)
				r.Put("/", diaryHandler.Update)
				r.Delete("/", diaryHandler.Delete)
				r.Get("/{id}", diaryHandler.Get)
				r.Put("/{id}", diaryHandler.Update)
				r.Delete("/{id}", diaryHandler.Delete)
			})

			r.Route("/events", func(r chi.Router) {
				r.Get("/", eventHandler.List)
				r.Post("/", eventHandler.Create)
				r.Put("/", eventHandler.Update)
				r.Delete("/", eventHandler.Delete)
			})

			r.Route("/bucket-list", func(r chi.Router) {
				r.Get("/", bucketHandler.List)
				r.Post("/", bucketHandler.Create)
				r.Put("/", bucketHandler.Update)
				r.Delete("/", bucketHandler.Delete)
			})

			r.Route("/mood", func(r chi.Router) {
				r.Get("/", moodHandler.List)
				r.Post("/", moodHandler.Create)
				r.Put("/", moodHandler.Update)
				r.Delete("/", moodHandler.Delete)
			})

			r.Route("/places", func(r chi.Router) {
				r.Get("/", placeHandler.List)
				r.Post("/", placeHandler.Create)
				r.Get("/memories", placeHandler.Memories)
				r.Put("/{id}", placeHandler.Update)
				r.Delete("/{id}", placeHandler.Delete)
			})

			r.Route("/expenses", func(r chi.Router) {
				r.Get("/", expenseHandler.List)
				r.Post("/", expenseHandler.Create)
				r.Put("/", expenseHandler.Update)
				r.Delete("/", expenseHandler.Delete)
				r.Get("/summary", expenseHandler.Summary)
			})

			r.Post("/uploads", uploadHandler.CreateUpload)
		})
	})

	// WebSocket route authenticates with ?token=
	r.Get("/ws", wsHandler.HandleWebSocket)

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
