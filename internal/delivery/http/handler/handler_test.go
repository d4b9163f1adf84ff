package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"helperhub/internal/delivery/http/middleware"
	"helperhub/internal/domain/catalog"
	"helperhub/internal/domain/matching"
	"helperhub/internal/domain/profile"
	"helperhub/internal/domain/request"
	"helperhub/internal/domain/review"
	"helperhub/internal/domain/user"
	"helperhub/internal/pkg/jwt"
	"helperhub/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type stubLedger struct {
	submitErr  error
	respondErr error
	submitted  int
}

func (s *stubLedger) Submit(_ context.Context, id user.Identity, providerID uuid.UUID, st string) (request.ServiceRequest, error) {
	if s.submitErr != nil {
		return request.ServiceRequest{}, s.submitErr
	}
	s.submitted++
	return request.New(id.ID, providerID, catalog.ServiceType(st), request.EmployerSnapshot{Email: id.Email}, request.JobSeekerSnapshot{Name: "Ana Lima"}, time.Now()), nil
}

func (s *stubLedger) ListMine(_ context.Context, id user.Identity) ([]request.ServiceRequest, user.Role, error) {
	return []request.ServiceRequest{}, user.RoleJobSeeker, nil
}

func (s *stubLedger) Respond(_ context.Context, id user.Identity, requestID uuid.UUID, decision string) (request.ServiceRequest, error) {
	if s.respondErr != nil {
		return request.ServiceRequest{}, s.respondErr
	}
	sr := request.New(uuid.New(), id.ID, catalog.House, request.EmployerSnapshot{}, request.JobSeekerSnapshot{}, time.Now())
	sr.ID = requestID
	d, _ := request.ParseDecision(decision)
	_ = sr.Decide(d, time.Now())
	return sr, nil
}

type stubProviders struct {
	gotServiceType, gotCategory string
	err                         error
	list                        []matching.Provider
}

func (s *stubProviders) FindProviders(_ context.Context, st, cat string) ([]matching.Provider, error) {
	s.gotServiceType, s.gotCategory = st, cat
	return s.list, s.err
}

func (s *stubProviders) GetProvider(_ context.Context, id uuid.UUID) (matching.Provider, error) {
	return matching.Provider{}, usecase.ErrNotFound
}

type stubReviews struct{}

func (stubReviews) Add(_ context.Context, _ user.Identity, in usecase.ReviewInput) (review.Review, error) {
	if in.Rating > review.MaxRating {
		return review.Review{}, fmt.Errorf("%w: %w", usecase.ErrValidationFailed, review.ErrRatingOutOfRange)
	}
	return review.Review{ID: uuid.New(), JobSeekerID: in.JobSeekerID, Rating: in.Rating}, nil
}

func (stubReviews) List(context.Context, uuid.UUID) ([]review.Review, error) {
	return []review.Review{}, nil
}

type stubSessions struct {
	role     user.Role
	err      error
	complete bool
}

func (s stubSessions) Resolve(_ context.Context, id user.Identity) (usecase.Session, error) {
	return usecase.Session{Identity: id, Role: s.role, RoleResolved: s.err == nil}, s.err
}

func (s stubSessions) Gate(context.Context, usecase.Session) usecase.GateResult {
	if s.role == user.RoleEmployer || s.complete {
		return usecase.GateResult{Gate: usecase.GateMatching, ProfileComplete: s.complete}
	}
	return usecase.GateResult{Gate: usecase.GateProfileCompletion}
}

type stubProfiles struct{}

func (stubProfiles) Get(context.Context, uuid.UUID) (profile.Profile, error) {
	return profile.Profile{}, usecase.ErrNotFound
}

func (stubProfiles) Save(_ context.Context, id user.Identity, pt profile.Patch) (profile.Profile, error) {
	return profile.Profile{UserID: id.ID, Role: user.RoleEmployer}.Apply(pt), nil
}

func (stubProfiles) UploadImage(_ context.Context, id user.Identity, img usecase.ImageUpload) (profile.Profile, error) {
	b, _ := io.ReadAll(img.Data)
	return profile.Profile{UserID: id.ID, ProfileImage: fmt.Sprintf("%s:%d", img.ContentType, len(b))}, nil
}

type testServer struct {
	app      *fiber.App
	tokens   *jwt.HMACService
	ledger   *stubLedger
	provs    *stubProviders
	identity user.Identity
}

func newTestServer(sessions stubSessions) *testServer {
	ts := &testServer{
		tokens:   jwt.NewHMACService("a", "r", time.Minute, time.Hour),
		ledger:   &stubLedger{},
		provs:    &stubProviders{list: []matching.Provider{}},
		identity: user.Identity{ID: uuid.New(), Email: "maya@example.com"},
	}
	quiet := log.New(io.Discard, "", 0)

	app := fiber.New()
	app.Use(middleware.NewErrorMiddleware(quiet).Middleware())
	api := app.Group("/api/v1")
	NewCatalogHandler().RegisterRoutes(api)
	protected := api.Group("", middleware.NewAuthMiddleware(ts.tokens).Middleware())
	NewSessionHandler(sessions, quiet).RegisterRoutes(protected)
	NewProviderHandler(ts.provs, stubReviews{}, sessions, 2).RegisterRoutes(protected)
	NewProfileHandler(stubProfiles{}, nil).RegisterRoutes(protected)
	NewRequestHandler(ts.ledger, middleware.NewRateLimiter(60, 1).Middleware()).RegisterRoutes(protected)
	ts.app = app
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) (*http.Response, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	tok, err := ts.tokens.GenerateAccessToken(ts.identity)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+tok)
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (*http.Response, envelope) {
	t.Helper()
	resp, err := ts.app.Test(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp, env
}

func TestRequestHandler_Submit(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleEmployer})
	provider := uuid.New()

	resp, env := ts.do(t, "POST", "/api/v1/requests", map[string]string{"providerId": provider.String(), "serviceType": "house"})
	if resp.StatusCode != 201 || env.Status != 201 {
		t.Fatalf("expected 201, got %d %s", resp.StatusCode, env.Message)
	}
	var got struct {
		Status       string `json:"status"`
		JobSeekerID  string `json:"jobSeekerId"`
		EmployerName string `json:"employerName"`
		ServiceTitle string `json:"serviceTitle"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("data: %v", err)
	}
	if got.Status != "pending" || got.JobSeekerID != provider.String() || got.EmployerName != "Employer" || got.ServiceTitle == "" {
		t.Fatalf("unexpected body %+v", got)
	}

	// Burst of one: an immediate second submit is throttled.
	resp, _ = ts.do(t, "POST", "/api/v1/requests", map[string]string{"providerId": provider.String(), "serviceType": "house"})
	if resp.StatusCode != 429 {
		t.Fatalf("expected 429, got %d", resp.StatusCode)
	}
	if ts.ledger.submitted != 1 {
		t.Fatalf("throttled submit must not reach the ledger")
	}
}

func TestRequestHandler_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{name: "forbidden", err: usecase.ErrForbidden, status: 403},
		{name: "not found", err: usecase.ErrNotFound, status: 404},
		{name: "validation", err: fmt.Errorf("%w: %w", usecase.ErrValidationFailed, errors.New("unknown service type")), status: 400, msg: "unknown service type"},
		{name: "store", err: &usecase.StoreError{Op: "save request", Err: errors.New("conn reset")}, status: 503, msg: "save request"},
		{name: "internal", err: errors.New("secret detail"), status: 500, msg: "internal server error"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(stubSessions{role: user.RoleEmployer})
			ts.ledger.submitErr = tc.err
			resp, env := ts.do(t, "POST", "/api/v1/requests", map[string]string{"providerId": uuid.NewString(), "serviceType": "house"})
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, resp.StatusCode, env.Message)
			}
			if tc.msg != "" && env.Message != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, env.Message)
			}
		})
	}
}

func TestRequestHandler_Respond(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleJobSeeker})
	id := uuid.New()

	resp, env := ts.do(t, "POST", "/api/v1/requests/"+id.String()+"/respond", map[string]string{"decision": "accept"})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d %s", resp.StatusCode, env.Message)
	}

	ts.ledger.respondErr = fmt.Errorf("%w: request is accepted", usecase.ErrInvalidTransition)
	resp, _ = ts.do(t, "POST", "/api/v1/requests/"+id.String()+"/respond", map[string]string{"decision": "decline"})
	if resp.StatusCode != 409 {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}

	resp, _ = ts.do(t, "POST", "/api/v1/requests/not-a-uuid/respond", map[string]string{"decision": "decline"})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestProviderHandler_ListDefaults(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleEmployer})

	resp, env := ts.do(t, "GET", "/api/v1/providers", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if string(env.Data) != "[]" {
		t.Fatalf("expected empty array, got %s", env.Data)
	}
	if ts.provs.gotServiceType != "house" || ts.provs.gotCategory != "all" {
		t.Fatalf("unexpected defaults %q %q", ts.provs.gotServiceType, ts.provs.gotCategory)
	}

	ts.provs.err = &usecase.StoreError{Op: "failed to load providers", Err: errors.New("timeout")}
	resp, env = ts.do(t, "GET", "/api/v1/providers?service_type=business&category=cook", nil)
	if resp.StatusCode != 503 || env.Message != "failed to load providers" {
		t.Fatalf("expected retryable 503, got %d %q", resp.StatusCode, env.Message)
	}

	resp, _ = ts.do(t, "GET", "/api/v1/providers/"+uuid.NewString(), nil)
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestProviderHandler_ProfileGate(t *testing.T) {
	cases := []struct {
		name     string
		sessions stubSessions
		status   int
	}{
		{name: "employer", sessions: stubSessions{role: user.RoleEmployer}, status: 200},
		{name: "unresolved role", sessions: stubSessions{role: user.RoleEmployer, err: usecase.ErrRoleUnresolved}, status: 200},
		{name: "complete job seeker", sessions: stubSessions{role: user.RoleJobSeeker, complete: true}, status: 200},
		{name: "incomplete job seeker", sessions: stubSessions{role: user.RoleJobSeeker}, status: 403},
		{name: "role store down", sessions: stubSessions{role: user.RoleEmployer, err: &usecase.StoreError{Op: "resolve role", Err: errors.New("timeout")}}, status: 503},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ts := newTestServer(tc.sessions)
			resp, env := ts.do(t, "GET", "/api/v1/providers", nil)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, resp.StatusCode, env.Message)
			}
			if tc.status != 403 {
				return
			}
			var data struct {
				Gate string `json:"gate"`
			}
			if err := json.Unmarshal(env.Data, &data); err != nil || data.Gate != "profile_completion" {
				t.Fatalf("expected profile_completion gate, got %s", env.Data)
			}
			if ts.provs.gotServiceType != "" {
				t.Fatalf("gated request must not reach the matching engine")
			}
			resp, _ = ts.do(t, "GET", "/api/v1/providers/"+uuid.NewString(), nil)
			if resp.StatusCode != 403 {
				t.Fatalf("provider detail: expected 403, got %d", resp.StatusCode)
			}
		})
	}
}

func TestProviderHandler_AddReviewValidation(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleEmployer})
	resp, env := ts.do(t, "POST", "/api/v1/providers/"+uuid.NewString()+"/reviews", map[string]any{"rating": 9})
	if resp.StatusCode != 400 || env.Message != review.ErrRatingOutOfRange.Error() {
		t.Fatalf("expected 400 with reason, got %d %q", resp.StatusCode, env.Message)
	}
}

func TestSessionHandler(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleEmployer, err: usecase.ErrRoleUnresolved})
	resp, env := ts.do(t, "GET", "/api/v1/session", nil)
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Role         string `json:"role"`
		RoleResolved bool   `json:"roleResolved"`
		Gate         string `json:"gate"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("data: %v", err)
	}
	if got.Role != "employer" || got.RoleResolved || got.Gate != "matching" {
		t.Fatalf("unexpected session %+v", got)
	}

	ts = newTestServer(stubSessions{err: &usecase.StoreError{Op: "resolve role", Err: errors.New("down")}})
	resp, _ = ts.do(t, "GET", "/api/v1/session", nil)
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503, got %d", resp.StatusCode)
	}
}

func TestProfileHandler_SaveRejectsEmptyPatch(t *testing.T) {
	ts := newTestServer(stubSessions{role: user.RoleEmployer})
	resp, _ := ts.do(t, "PUT", "/api/v1/profile", map[string]any{})
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}

	resp, env := ts.do(t, "PUT", "/api/v1/profile", map[string]any{"firstName": "Maya", "email": "ignored@example.com"})
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		FirstName string `json:"firstName"`
		Email     string `json:"email"`
	}
	_ = json.Unmarshal(env.Data, &got)
	if got.FirstName != "Maya" || got.Email != "" {
		t.Fatalf("email must not come from the body, got %+v", got)
	}
}

func TestCatalogIsPublic(t *testing.T) {
	ts := newTestServer(stubSessions{})
	resp, env := ts.send(t, httptest.NewRequest("GET", "/api/v1/catalog", nil))
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got struct {
		Categories []catalog.Entry `json:"categories"`
	}
	if err := json.Unmarshal(env.Data, &got); err != nil || len(got.Categories) != len(catalog.Categories()) {
		t.Fatalf("unexpected catalog %s %v", env.Data, err)
	}

	resp, _ = ts.send(t, httptest.NewRequest("GET", "/api/v1/session", nil))
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401 without a token, got %d", resp.StatusCode)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	cases := []struct {
		name     string
		db       Pinger
		cache    Pinger
		status   int
		database string
		cacheSt  string
	}{
		{name: "all up", db: stubPinger{}, cache: stubPinger{}, status: 200, database: "up", cacheSt: "up"},
		{name: "cache down", db: stubPinger{}, cache: stubPinger{err: errors.New("refused")}, status: 200, database: "up", cacheSt: "down"},
		{name: "db down", db: stubPinger{err: errors.New("refused")}, status: 503, database: "down", cacheSt: "disabled"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler(tc.db, tc.cache).RegisterRoutes(app)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			var env envelope
			if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
				t.Fatal(err)
			}
			var data map[string]string
			if err := json.Unmarshal(env.Data, &data); err != nil {
				t.Fatal(err)
			}
			if data["database"] != tc.database || data["cache"] != tc.cacheSt {
				t.Fatalf("data = %v", data)
			}
		})
	}
}
