package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"helperhub/internal/app"
	"helperhub/internal/config"
	"helperhub/internal/database"
	"helperhub/internal/database/migration"
	"helperhub/migrations"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type semanticResponse struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type authData struct {
	User struct {
		ID uuid.UUID `json:"id"`
	} `json:"user"`
	Role        string `json:"role"`
	AccessToken string `json:"accessToken"`
}

type requestItem struct {
	ID          uuid.UUID `json:"id"`
	JobSeekerID uuid.UUID `json:"jobSeekerId"`
	Status      string    `json:"status"`
}

func TestIntegration_SubmitListRespond(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	cfg := testConfig(t)
	c, err := app.NewContainer(ctx, cfg, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("container: %v", err)
	}
	defer func() { _ = c.Close() }()

	if _, err := (migration.Runner{FS: migrations.FS}).Run(ctx, c.DB.SQLDB()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	fa := app.New(c).Fiber
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:10]

	employer := signup(t, fa, "employer-"+suffix+"@example.com", "employer")
	seeker := signup(t, fa, "seeker-"+suffix+"@example.com", "jobSeeker")
	defer cleanup(t, c.DB, employer.User.ID, seeker.User.ID)

	call(t, fa, "GET", "/api/v1/providers", seeker.AccessToken, nil, 403)
	call(t, fa, "PUT", "/api/v1/profile", seeker.AccessToken, map[string]any{
		"firstName":          "Ana",
		"lastName":           "Lima",
		"phone":              "555-0100",
		"selectedCategories": []string{"cook"},
	}, 200)

	var providers []struct {
		UserID uuid.UUID `json:"userId"`
	}
	decodeData(t, call(t, fa, "GET", "/api/v1/providers?service_type=house&category=cook", employer.AccessToken, nil, 200), &providers)
	if !containsProvider(providers, seeker.User.ID) {
		t.Fatalf("providers: expected the new job seeker in the cook listing")
	}

	submit := map[string]string{"providerId": seeker.User.ID.String(), "serviceType": "house"}
	var first requestItem
	decodeData(t, call(t, fa, "POST", "/api/v1/requests", employer.AccessToken, submit, 201), &first)
	time.Sleep(time.Second)
	call(t, fa, "POST", "/api/v1/requests", employer.AccessToken, submit, 201)

	var listed struct {
		Role     string        `json:"role"`
		Requests []requestItem `json:"requests"`
	}
	decodeData(t, call(t, fa, "GET", "/api/v1/requests", seeker.AccessToken, nil, 200), &listed)
	if listed.Role != "jobSeeker" || len(listed.Requests) != 2 {
		t.Fatalf("requests: expected 2 for the job seeker, got %d (role=%s)", len(listed.Requests), listed.Role)
	}
	for _, r := range listed.Requests {
		if r.JobSeekerID != seeker.User.ID || r.Status != "pending" {
			t.Fatalf("requests: unexpected item %+v", r)
		}
	}

	respond := "/api/v1/requests/" + first.ID.String() + "/respond"
	call(t, fa, "POST", respond, employer.AccessToken, map[string]string{"decision": "accept"}, 403)
	call(t, fa, "POST", respond, seeker.AccessToken, map[string]string{"decision": "accept"}, 200)
	call(t, fa, "POST", respond, seeker.AccessToken, map[string]string{"decision": "decline"}, 409)
}

func testConfig(t *testing.T) config.Config {
	t.Helper()

	host := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_HOST"), os.Getenv("DB_HOST"))
	port := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_PORT"), os.Getenv("DB_PORT"))
	name := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_NAME"), os.Getenv("DB_NAME"))
	user := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_USER"), os.Getenv("DB_USER"))
	pass := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_PASSWORD"), os.Getenv("DB_PASSWORD"))
	ssl := stringsOrDefault(os.Getenv("HELPERHUB_TEST_DB_SSL_MODE"), os.Getenv("DB_SSL_MODE"))

	if host == "" || port == "" || name == "" || user == "" {
		t.Skip("missing test DB env vars: set HELPERHUB_TEST_DB_HOST/PORT/NAME/USER/PASSWORD (or DB_HOST/DB_PORT/DB_NAME/DB_USER/DB_PASSWORD)")
	}

	return config.Config{
		App: config.AppConfig{AppName: "HelperHub", Environment: "test", HTTPPort: "0"},
		Database: config.DatabaseConfig{
			DBHost:     host,
			DBPort:     port,
			DBName:     name,
			DBUser:     user,
			DBPassword: pass,
			DBSSLMode:  ssl,
		},
		JWT: config.JWTConfig{
			AccessSecret:     "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessExpiresIn:  15 * time.Minute,
			RefreshExpiresIn: 24 * time.Hour,
		},
		Redis:   config.RedisConfig{Host: os.Getenv("HELPERHUB_TEST_REDIS_HOST"), Port: os.Getenv("HELPERHUB_TEST_REDIS_PORT"), TTL: time.Minute},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir(), PublicBaseURL: "http://localhost/uploads"},
		Kafka:   config.KafkaConfig{Topic: "service-requests"},
		Limits:  config.LimitsConfig{RequestsPerMinute: 600, RequestBurst: 5, MaxImageBytes: 1 << 20, ReviewsPerCard: 2},
	}
}

func signup(t *testing.T, fa *fiber.App, email, role string) authData {
	t.Helper()

	var out authData
	decodeData(t, call(t, fa, "POST", "/api/v1/auth/signup", "", map[string]string{
		"email":           email,
		"password":        "password123",
		"confirmPassword": "password123",
		"name":            "Test " + role,
		"role":            role,
	}, 201), &out)
	if out.AccessToken == "" || out.Role != role {
		t.Fatalf("signup %s: unexpected response %+v", role, out)
	}
	return out
}

func call(t *testing.T, fa *fiber.App, method, path, token string, body any, wantStatus int) semanticResponse {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := fa.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		t.Fatalf("%s %s: request error: %v", method, path, err)
	}
	defer resp.Body.Close()

	var sr semanticResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		t.Fatalf("%s %s: decode error: %v", method, path, err)
	}
	if sr.Status != wantStatus {
		t.Fatalf("%s %s: expected status=%d, got %d (message=%s)", method, path, wantStatus, sr.Status, sr.Message)
	}
	return sr
}

func decodeData(t *testing.T, sr semanticResponse, out any) {
	t.Helper()
	if err := json.Unmarshal(sr.Data, out); err != nil {
		t.Fatalf("data unmarshal error: %v", err)
	}
}

func containsProvider(ps []struct {
	UserID uuid.UUID `json:"userId"`
}, id uuid.UUID) bool {
	for _, p := range ps {
		if p.UserID == id {
			return true
		}
	}
	return false
}

func cleanup(t *testing.T, db database.DB, ids ...uuid.UUID) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, id := range ids {
		_, _ = db.Exec(ctx, `DELETE FROM service_requests WHERE employer_id = $1 OR job_seeker_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM reviews WHERE job_seeker_id = $1 OR reviewer_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM business_info WHERE user_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM employers WHERE user_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM job_seekers WHERE user_id = $1`, id)
		_, _ = db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	}
}

func stringsOrDefault(v, def string) string {
	if strings.TrimSpace(v) != "" {
		return v
	}
	return def
}
