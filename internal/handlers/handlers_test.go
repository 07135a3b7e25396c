package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"couple-journal-backend/internal/middleware"
	"couple-journal-backend/internal/repository/memory"
	"couple-journal-backend/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

type testAPI struct {
	t      *testing.T
	server *httptest.Server
}

func newTestAPI(t *testing.T, limiter *middleware.RateLimiter) *testAPI {
	t.Helper()

	loc := time.FixedZone("ICT", 7*3600)
	store := memory.New().Repositories()

	users := services.NewUserService(store.Users, testSecret, time.Hour, loc)
	couples := services.NewCoupleService(store.Couples, store.Users, nil, loc)
	hub := services.NewWSHub(couples)

	router := NewRouter(Deps{
		Users:    users,
		Couples:  couples,
		Messages: services.NewMessageService(store.Messages, couples, hub),
		Diary:    services.NewDiaryService(store.Diary, couples, hub, loc),
		Events:   services.NewEventService(store.Events, couples, hub, loc),
		Bucket:   services.NewBucketListService(store.Bucket, couples, hub),
		Moods:    services.NewMoodService(store.Moods, couples, loc),
		Places:   services.NewPlaceService(store.Places, couples, hub, loc),
		Expenses: services.NewExpenseService(store.Expenses, couples, hub, loc),
		Hub:      hub,
		Limiter:  limiter,
	})

	server := httptest.NewServer(router)
	t.Cleanup(func() {
		hub.Close()
		server.Close()
	})
	return &testAPI{t: t, server: server}
}

// do sends a JSON request and returns the status and raw body.
func (a *testAPI) do(method, path, token string, body any) (int, []byte) {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return resp.StatusCode, raw
}

func (a *testAPI) decode(raw []byte, v any) {
	a.t.Helper()
	require.NoError(a.t, json.Unmarshal(raw, v), string(raw))
}

// signUp registers and logs in, returning the token and user ID.
func (a *testAPI) signUp(name, email string) (string, string) {
	a.t.Helper()

	status, raw := a.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": name, "email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusCreated, status, string(raw))

	status, raw = a.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": "secret123",
	})
	require.Equal(a.t, http.StatusOK, status, string(raw))

	var session struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	a.decode(raw, &session)
	require.NotEmpty(a.t, session.Token)
	return session.Token, session.User.ID
}

// pair signs up alice and bob and links them.
func (a *testAPI) pair() (alice, bob string) {
	a.t.Helper()
	alice, _ = a.signUp("Alice", "alice@example.com")
	bob, _ = a.signUp("Bob", "bob@example.com")

	status, raw := a.do(http.MethodPost, "/api/v1/couples", alice, map[string]string{
		"partnerEmail": "bob@example.com", "action": "create",
	})
	require.Equal(a.t, http.StatusCreated, status, string(raw))
	return alice, bob
}

func TestRegisterAndLogin(t *testing.T) {
	api := newTestAPI(t, nil)

	status, raw := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.NotContains(t, string(raw), "password")

	t.Run("duplicate email", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
			"name": "Alice", "email": "ALICE@example.com", "password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("wrong password", func(t *testing.T) {
		status, _ := api.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "nope-nope",
		})
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("profile requires token", func(t *testing.T) {
		status, _ := api.do(http.MethodGet, "/api/v1/users/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("profile update", func(t *testing.T) {
		token, _ := api.signUp("Bob", "bob@example.com")
		status, raw := api.do(http.MethodPut, "/api/v1/users/me", token, map[string]string{"name": "Bobby"})
		require.Equal(t, http.StatusOK, status, string(raw))

		var user struct {
			Name string `json:"name"`
		}
		api.decode(raw, &user)
		assert.Equal(t, "Bobby", user.Name)

		status, _ = api.do(http.MethodPut, "/api/v1/users/me/push-token", token, map[string]string{"token": "device"})
		assert.Equal(t, http.StatusNoContent, status)
	})
}

func TestCoupleLifecycle(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, _ := api.signUp("Alice", "alice@example.com")
	bob, _ := api.signUp("Bob", "bob@example.com")

	status, raw := api.do(http.MethodGet, "/api/v1/couples", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"couple":null}`, string(raw))

	status, _ = api.do(http.MethodPost, "/api/v1/couples", alice, map[string]string{
		"partnerEmail": "bob@example.com", "action": "invite",
	})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodPost, "/api/v1/couples", alice, map[string]string{
		"partnerEmail": "bob@example.com", "action": "create",
	})
	require.Equal(t, http.StatusCreated, status)

	status, raw = api.do(http.MethodGet, "/api/v1/couples", bob, nil)
	require.Equal(t, http.StatusOK, status)
	var resp struct {
		Couple struct {
			User1 struct {
				Email string `json:"email"`
			} `json:"user1"`
		} `json:"couple"`
	}
	api.decode(raw, &resp)
	assert.Equal(t, "alice@example.com", resp.Couple.User1.Email)

	status, _ = api.do(http.MethodPost, "/api/v1/couples", bob, map[string]string{"partnerEmail": "alice@example.com"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/couples", bob, nil)
	require.Equal(t, http.StatusOK, status)

	status, raw = api.do(http.MethodGet, "/api/v1/couples", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"couple":null}`, string(raw))
}

func TestMessages(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()
	carol, _ := api.signUp("Carol", "carol@example.com")

	status, raw := api.do(http.MethodPost, "/api/v1/messages", alice, map[string]string{
		"title": "Hi", "emoji": "💌", "content": "Thinking of you",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var msg struct {
		ID     string `json:"id"`
		IsRead bool   `json:"isRead"`
	}
	api.decode(raw, &msg)

	status, raw = api.do(http.MethodGet, "/api/v1/messages", bob, nil)
	require.Equal(t, http.StatusOK, status)
	var list []map[string]any
	api.decode(raw, &list)
	assert.Len(t, list, 1)

	status, raw = api.do(http.MethodPut, "/api/v1/messages/"+msg.ID, bob, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	api.decode(raw, &msg)
	assert.True(t, msg.IsRead)

	status, raw = api.do(http.MethodPut, "/api/v1/messages", alice, map[string]string{"id": msg.ID, "title": "Hello"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Contains(t, string(raw), "Thinking of you")

	t.Run("outsider", func(t *testing.T) {
		status, raw := api.do(http.MethodGet, "/api/v1/messages", carol, nil)
		require.Equal(t, http.StatusOK, status)
		assert.JSONEq(t, `[]`, string(raw))

		status, _ = api.do(http.MethodDelete, "/api/v1/messages?id="+msg.ID, carol, nil)
		assert.Equal(t, http.StatusForbidden, status)

		status, _ = api.do(http.MethodPost, "/api/v1/messages", carol, map[string]string{"content": "hey"})
		assert.Equal(t, http.StatusBadRequest, status)
	})

	status, _ = api.do(http.MethodDelete, "/api/v1/messages/"+msg.ID, alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/messages?id="+msg.ID, alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestDiaryPathRoutes(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()

	status, raw := api.do(http.MethodPost, "/api/v1/diary", alice, map[string]any{
		"title": "Picnic", "content": "Sunny day", "photos": []string{"a.jpg"},
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var entry struct {
		ID    string `json:"id"`
		Title string `json:"title"`
	}
	api.decode(raw, &entry)

	status, raw = api.do(http.MethodGet, "/api/v1/diary/"+entry.ID, bob, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "Sunny day")

	status, raw = api.do(http.MethodPut, "/api/v1/diary/"+entry.ID, bob, map[string]string{"title": "Park picnic"})
	require.Equal(t, http.StatusOK, status, string(raw))
	api.decode(raw, &entry)
	assert.Equal(t, "Park picnic", entry.Title)

	status, _ = api.do(http.MethodPost, "/api/v1/diary", alice, map[string]string{"title": "No content"})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/diary/"+entry.ID, alice, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = api.do(http.MethodGet, "/api/v1/diary/abc", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(http.MethodDelete, "/api/v1/messages?id=abc", alice, nil)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = api.do(http.MethodGet, "/api/v1/places?coupleId=abc", alice, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestPlacesAndMemories(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()

	status, raw := api.do(http.MethodPost, "/api/v1/places", alice, map[string]any{
		"name": "Nhà hàng Ngon", "latitude": 10.77, "longitude": 106.7, "rating": 5,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var place struct {
		ID       string `json:"id"`
		CoupleID string `json:"coupleId"`
	}
	api.decode(raw, &place)

	status, raw = api.do(http.MethodGet, "/api/v1/places/memories?coupleId="+place.CoupleID, bob, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var memories []services.Memory
	api.decode(raw, &memories)
	require.Len(t, memories, 1)
	assert.Equal(t, services.CategoryRestaurant, memories[0].Category)
	assert.Equal(t, services.GlyphVeryHappy, memories[0].Mood)
	assert.Equal(t, [2]float64{10.77, 106.7}, memories[0].Coordinates)

	status, _ = api.do(http.MethodPut, "/api/v1/places/"+place.ID, bob, map[string]int{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, status)

	carol, _ := api.signUp("Carol", "carol@example.com")
	status, _ = api.do(http.MethodGet, "/api/v1/places?coupleId="+place.CoupleID, carol, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/places/"+place.ID, bob, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestMoodQuery(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()

	status, raw := api.do(http.MethodPost, "/api/v1/mood", bob, map[string]any{"mood": "happy", "intensity": 8})
	require.Equal(t, http.StatusCreated, status, string(raw))

	status, raw = api.do(http.MethodGet, "/api/v1/mood?partner=true&days=7", alice, nil)
	require.Equal(t, http.StatusOK, status)
	var entries []map[string]any
	api.decode(raw, &entries)
	assert.Len(t, entries, 1)

	status, raw = api.do(http.MethodGet, "/api/v1/mood", alice, nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `[]`, string(raw))

	status, _ = api.do(http.MethodGet, "/api/v1/mood?days=abc", alice, nil)
	assert.Equal(t, http.StatusBadRequest, status)
}

func TestExpensesSummary(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()

	for _, body := range []map[string]any{
		{"title": "Dinner", "amount": 300000, "category": "food"},
		{"title": "Movie", "amount": 200000, "category": "fun"},
	} {
		status, raw := api.do(http.MethodPost, "/api/v1/expenses", alice, body)
		require.Equal(t, http.StatusCreated, status, string(raw))
	}

	status, _ := api.do(http.MethodPost, "/api/v1/expenses", bob, map[string]any{"title": "Free", "amount": 0})
	assert.Equal(t, http.StatusBadRequest, status)

	status, raw := api.do(http.MethodGet, "/api/v1/expenses/summary", bob, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	var summary services.ExpenseSummary
	api.decode(raw, &summary)
	assert.InDelta(t, 500000, summary.Total, 0.001)
	assert.Equal(t, 2, summary.Count)
}

func TestEventsAndBucketList(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, bob := api.pair()

	status, raw := api.do(http.MethodPost, "/api/v1/events", alice, map[string]any{
		"title": "Anniversary dinner", "date": "2026-12-24", "time": "19:30", "reminderMinutes": 60,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var event struct {
		ID string `json:"id"`
	}
	api.decode(raw, &event)

	status, _ = api.do(http.MethodPut, "/api/v1/events", bob, map[string]any{"id": event.ID, "reminderMinutes": -5})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = api.do(http.MethodDelete, "/api/v1/events?id="+event.ID, bob, nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw = api.do(http.MethodPost, "/api/v1/bucket-list", bob, map[string]string{"title": "See the northern lights"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	var item struct {
		ID          string     `json:"id"`
		Category    string     `json:"category"`
		CompletedAt *time.Time `json:"completedAt"`
	}
	api.decode(raw, &item)
	assert.Equal(t, "other", item.Category)

	status, raw = api.do(http.MethodPut, "/api/v1/bucket-list", alice, map[string]any{"id": item.ID, "isCompleted": true})
	require.Equal(t, http.StatusOK, status, string(raw))
	api.decode(raw, &item)
	assert.NotNil(t, item.CompletedAt)
}

func TestUploadsWithoutStorage(t *testing.T) {
	api := newTestAPI(t, nil)
	alice, _ := api.pair()

	status, raw := api.do(http.MethodPost, "/api/v1/uploads", alice, map[string]string{
		"filename": "a.jpg", "contentType": "image/jpeg", "kind": "diary",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(raw), "Uploads are not configured")
}

func TestAuthRateLimit(t *testing.T) {
	api := newTestAPI(t, middleware.NewRateLimiter(1, 1))

	body := map[string]string{"email": "nobody@example.com", "password": "whatever"}
	status, _ := api.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = api.do(http.MethodPost, "/api/v1/auth/login", "", body)
	assert.Equal(t, http.StatusTooManyRequests, status)
}

func TestOperationalRoutes(t *testing.T) {
	api := newTestAPI(t, nil)

	status, raw := api.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	status, raw = api.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "couple_journal_http_requests_total")

	req, err := http.NewRequest(http.MethodOptions, api.server.URL+"/api/v1/messages", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "PUT")
}
