//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"community-app-go/internal/clients/moderation"
	"community-app-go/internal/config"
	"community-app-go/internal/db"
	chatdomain "community-app-go/internal/domain/chat"
	profiledomain "community-app-go/internal/domain/profile"
	taxonomydomain "community-app-go/internal/domain/taxonomy"
	userdomain "community-app-go/internal/domain/user"
	"community-app-go/internal/repository/inmemory"
	chatrepo "community-app-go/internal/repository/postgres/chat"
	profilerepo "community-app-go/internal/repository/postgres/profile"
	taxonomyrepo "community-app-go/internal/repository/postgres/taxonomy"
	userrepo "community-app-go/internal/repository/postgres/user"
	"community-app-go/internal/transport/httpserver"
	"community-app-go/internal/transport/httpserver/handler"
	"community-app-go/pkg/logger"
	"gorm.io/gorm"
)

type testEnv struct {
	server           *httptest.Server
	identityServer   *httptest.Server
	moderationServer *httptest.Server
	db               *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	identityServer := newIdentityServer(t)
	moderationServer := newModerationServer(t)

	log := logger.New(io.Discard, slog.LevelError, "json")

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Identity: config.IdentityConfig{
			URL:     identityServer.URL,
			APIKey:  "test-key",
			Timeout: 2 * time.Second,
		},
		Moderation: config.ModerationConfig{
			URL:     moderationServer.URL,
			Timeout: 2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}

	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	moderator := moderation.NewClient(cfg.Moderation, log)
	profiles := profiledomain.NewService(profilerepo.NewPostgres(dbConn), moderator, profiledomain.DirectoryOptions{})
	chat := chatdomain.NewService(chatrepo.NewPostgres(dbConn), moderator, users, profiles, log)
	taxonomy := taxonomydomain.NewService(taxonomyrepo.NewPostgres(dbConn), users, inmemory.NewInMemoryTagsCache())

	handlers := handler.New(profiles, chat, taxonomy, log)
	router := httpserver.NewRouter(cfg, handlers, users, log)
	server := httptest.NewServer(router)

	return &testEnv{
		server:           server,
		identityServer:   identityServer,
		moderationServer: moderationServer,
		db:               dbConn,
	}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.identityServer.Close()
	e.moderationServer.Close()
	sqlDB, err := e.db.DB()
	if err == nil {
		_ = sqlDB.Close()
	}
}

// newIdentityServer echoes the bearer token back as the principal id, so each
// test token is its own user.
func newIdentityServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token == "" || token == "invalid" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}

		payload := map[string]interface{}{
			"sub":   token,
			"name":  "User " + token,
			"email": token + "@example.com",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}))
}

// newModerationServer rejects any content containing the word "forbidden".
func newModerationServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Content string `json:"content"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		verdict := map[string]interface{}{"accepted": true, "labels": []string{}}
		if strings.Contains(req.Content, "forbidden") {
			verdict = map[string]interface{}{"accepted": false, "labels": []string{"policy"}}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(verdict)
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	return dbConn.WithContext(context.Background()).Exec(
		"TRUNCATE TABLE user_medals, medals, user_availability, user_tags, tags, messages, profiles, users RESTART IDENTITY CASCADE",
	).Error
}

func makeAdmin(t *testing.T, dbConn *gorm.DB, userID string) {
	t.Helper()
	if err := dbConn.Exec("UPDATE users SET role = 'admin' WHERE id = ?", userID).Error; err != nil {
		t.Fatalf("promote admin: %v", err)
	}
}

func requestJSON(t *testing.T, client *http.Client, method, url, token string, payload interface{}) (*http.Response, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, body)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}

	return resp, respBody
}

type profileEnvelope struct {
	Message string `json:"message"`
	Profile struct {
		ID         string `json:"id"`
		UserID     string `json:"userId"`
		Handle     string `json:"handle"`
		Bio        string `json:"bio"`
		Wechat     string `json:"wechat"`
		City       string `json:"city"`
		District   string `json:"district"`
		IsVerified bool   `json:"isVerified"`
	} `json:"profile"`
}

type directoryEnvelope struct {
	Message    string            `json:"message"`
	Profiles   []json.RawMessage `json:"profiles"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Total      int64             `json:"total"`
	TotalPages int               `json:"totalPages"`
}

func snapshotPayload(handle string) map[string]interface{} {
	return map[string]interface{}{
		"snapshot": map[string]interface{}{
			"handle":             handle,
			"displayName":        "Member " + handle,
			"bio":                "here to help",
			"coreSkills":         []string{"mentoring"},
			"wechat":             "wx-" + handle,
			"province":           "Guangdong",
			"city":               "Shenzhen",
			"district":           "Nanshan",
			"locationVisibility": 1,
		},
	}
}

func TestE2EHealthAndAuth(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	resp, _ := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/health", "", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("no token: expected 401, got %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "invalid", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad token: expected 401, got %d", resp.StatusCode)
	}
}

func TestE2EProfileLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	// First access creates an empty profile.
	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var created profileEnvelope
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.Message != "Profile created" {
		t.Fatalf("expected creation message, got %q", created.Message)
	}
	if len(created.Profile.Handle) < 10 {
		t.Fatalf("expected generated handle, got %q", created.Profile.Handle)
	}
	if created.Profile.IsVerified {
		t.Fatal("fresh profile must be unverified")
	}

	// The directory is closed to unverified members.
	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/directory", "alice", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unverified directory: expected 401, got %d", resp.StatusCode)
	}

	// Moderation-rejected content stages nothing.
	bad := snapshotPayload("alice-handle")
	bad["snapshot"].(map[string]interface{})["bio"] = "forbidden content"
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me", "alice", bad)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("rejected propose: expected 400, got %d", resp.StatusCode)
	}

	// A clean revision is staged for review.
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me", "alice", snapshotPayload("alice-handle"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("propose: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// Promote an admin and adjudicate.
	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "root", nil)
	makeAdmin(t, env.db, "root")

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/admin/profiles/pending", "root", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pending: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var pending struct {
		Profiles []json.RawMessage `json:"profiles"`
	}
	if err := json.Unmarshal(body, &pending); err != nil {
		t.Fatalf("decode pending: %v", err)
	}
	if len(pending.Profiles) != 1 {
		t.Fatalf("expected 1 pending profile, got %d", len(pending.Profiles))
	}

	// A regular member cannot reach the admin surface.
	resp, _ = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/admin/profiles/pending", "alice", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("member on admin route: expected 401, got %d", resp.StatusCode)
	}

	decision := map[string]interface{}{"userId": "alice", "approve": true}
	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/profiles/decision", "root", decision)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("decision: expected 200, got %d: %s", resp.StatusCode, body)
	}

	// The merge is visible and the profile verified.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "alice", nil)
	var merged profileEnvelope
	if err := json.Unmarshal(body, &merged); err != nil {
		t.Fatalf("decode merged: %v", err)
	}
	if merged.Profile.Handle != "alice-handle" || !merged.Profile.IsVerified {
		t.Fatalf("expected merged verified profile, got %+v", merged.Profile)
	}

	// Directory now opens for alice.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/directory?page=1&limit=10", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("directory: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var directory directoryEnvelope
	if err := json.Unmarshal(body, &directory); err != nil {
		t.Fatalf("decode directory: %v", err)
	}
	if directory.Total < 1 || directory.TotalPages < 1 {
		t.Fatalf("expected populated directory, got %+v", directory)
	}
}

func TestE2ERedaction(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	// Verified target with locationVisibility 1: city visible, district not.
	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "target", nil)
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me", "target", snapshotPayload("target-handle"))

	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "root", nil)
	makeAdmin(t, env.db, "root")
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/profiles/decision", "root",
		map[string]interface{}{"userId": "target", "approve": true})

	// Verified viewer.
	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "viewer", nil)
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me", "viewer", snapshotPayload("viewer-handle"))
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/profiles/decision", "root",
		map[string]interface{}{"userId": "viewer", "approve": true})

	resp, body := requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/target", "viewer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	var seen profileEnvelope
	if err := json.Unmarshal(body, &seen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seen.Profile.Wechat != "" {
		t.Fatalf("contact must be hidden from members, got %q", seen.Profile.Wechat)
	}
	if seen.Profile.City != "Shenzhen" || seen.Profile.District != "" {
		t.Fatalf("visibility 1 shows city only, got city=%q district=%q", seen.Profile.City, seen.Profile.District)
	}

	// The directory applies the same redaction as the single fetch.
	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/directory", "viewer", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("directory: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var listing directoryEnvelope
	if err := json.Unmarshal(body, &listing); err != nil {
		t.Fatalf("decode directory: %v", err)
	}
	found := false
	for _, raw := range listing.Profiles {
		var entry struct {
			Profile struct {
				UserID   string `json:"userId"`
				Wechat   string `json:"wechat"`
				City     string `json:"city"`
				District string `json:"district"`
			} `json:"profile"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			t.Fatalf("decode directory entry: %v", err)
		}
		if entry.Profile.UserID != "target" {
			continue
		}
		found = true
		if entry.Profile.Wechat != "" {
			t.Fatalf("directory must hide contact from members, got %q", entry.Profile.Wechat)
		}
		if entry.Profile.City != "Shenzhen" || entry.Profile.District != "" {
			t.Fatalf("directory visibility 1 shows city only, got city=%q district=%q", entry.Profile.City, entry.Profile.District)
		}
	}
	if !found {
		t.Fatal("target missing from directory listing")
	}

	// Makes the admin verified, then the admin sees the contact field.
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me", "root", snapshotPayload("root-handle-x"))
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/profiles/decision", "root",
		map[string]interface{}{"userId": "root", "approve": true})

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/target", "root", nil)
	if err := json.Unmarshal(body, &seen); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if seen.Profile.Wechat != "wx-target-handle" {
		t.Fatalf("admin must see contact, got %q", seen.Profile.Wechat)
	}
}

func TestE2EChat(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "alice", nil)
	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "bob", nil)

	// Unknown receiver.
	resp, _ := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/messages", "alice",
		map[string]string{"receiverId": "ghost", "content": "hello"})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("unknown receiver: expected 404, got %d", resp.StatusCode)
	}

	// Moderation gate.
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/messages", "alice",
		map[string]string{"receiverId": "bob", "content": "forbidden words"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("rejected message: expected 400, got %d", resp.StatusCode)
	}

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/messages", "alice",
		map[string]string{"receiverId": "bob", "content": "hi bob"})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("send: expected 200, got %d: %s", resp.StatusCode, body)
	}
	requestJSON(t, client, http.MethodPost, env.server.URL+"/api/messages", "bob",
		map[string]string{"receiverId": "alice", "content": "hi alice"})

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/conversations", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("conversations: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var conversations struct {
		Conversations []struct {
			CounterpartID string `json:"counterpartId"`
			LatestMessage struct {
				Content string `json:"content"`
			} `json:"latestMessage"`
		} `json:"conversations"`
	}
	if err := json.Unmarshal(body, &conversations); err != nil {
		t.Fatalf("decode conversations: %v", err)
	}
	if len(conversations.Conversations) != 1 {
		t.Fatalf("expected 1 conversation, got %d", len(conversations.Conversations))
	}
	if conversations.Conversations[0].CounterpartID != "bob" ||
		conversations.Conversations[0].LatestMessage.Content != "hi alice" {
		t.Fatalf("unexpected conversation %+v", conversations.Conversations[0])
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/conversations/bob", "alice", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("thread: expected 200, got %d: %s", resp.StatusCode, body)
	}
	var thread struct {
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(body, &thread); err != nil {
		t.Fatalf("decode thread: %v", err)
	}
	if len(thread.Messages) != 2 || thread.Messages[0].Content != "hi alice" {
		t.Fatalf("expected newest-first thread, got %+v", thread.Messages)
	}
}

func TestE2ETagsAndMedals(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()
	client := &http.Client{Timeout: 5 * time.Second}

	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "alice", nil)
	requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "root", nil)
	makeAdmin(t, env.db, "root")

	resp, body := requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/tags", "root",
		map[string]string{"content": "climate", "category": "issues"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create tag: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var createdTag struct {
		Tag struct {
			ID string `json:"id"`
		} `json:"tag"`
	}
	if err := json.Unmarshal(body, &createdTag); err != nil {
		t.Fatalf("decode tag: %v", err)
	}

	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/tags", "root",
		map[string]string{"content": "climate", "category": "issues"})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate tag: expected 400, got %d", resp.StatusCode)
	}

	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/profiles/me/tags", "alice",
		map[string]interface{}{"tags": []string{createdTag.Tag.ID}})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("attach tag: expected 200, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/medals", "root",
		map[string]string{"name": "Founder"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create medal: expected 201, got %d: %s", resp.StatusCode, body)
	}
	var createdMedal struct {
		Medal struct {
			ID string `json:"id"`
		} `json:"medal"`
	}
	if err := json.Unmarshal(body, &createdMedal); err != nil {
		t.Fatalf("decode medal: %v", err)
	}

	grant := map[string]string{"userId": "alice", "medalId": createdMedal.Medal.ID}
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/medals/grant", "root", grant)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("grant: expected 200, got %d", resp.StatusCode)
	}
	// Granting twice stays idempotent.
	resp, _ = requestJSON(t, client, http.MethodPost, env.server.URL+"/api/admin/medals/grant", "root", grant)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("repeat grant: expected 200, got %d", resp.StatusCode)
	}

	resp, body = requestJSON(t, client, http.MethodGet, env.server.URL+"/api/profiles/me", "alice", nil)
	var self struct {
		Tags   []json.RawMessage `json:"tags"`
		Medals []json.RawMessage `json:"medals"`
	}
	if err := json.Unmarshal(body, &self); err != nil {
		t.Fatalf("decode self: %v", err)
	}
	if len(self.Tags) != 1 {
		t.Fatalf("expected 1 tag, got %d", len(self.Tags))
	}
	if len(self.Medals) != 1 {
		t.Fatalf("expected 1 medal, got %d", len(self.Medals))
	}
}
