package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	workordersvc "github.com/otoservis/otoservis-backend/internal/workorders"
	pkgAuth "github.com/otoservis/otoservis-backend/pkg/auth"
	"github.com/otoservis/otoservis-backend/pkg/config"
	"github.com/otoservis/otoservis-backend/pkg/enums"
	"github.com/otoservis/otoservis-backend/pkg/logger"
	"github.com/otoservis/otoservis-backend/pkg/pagination"
)

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubMembershipChecker struct {
	roles map[uuid.UUID][]enums.MemberRole
}

func (s *stubMembershipChecker) UserHasRole(ctx context.Context, userID, branchID uuid.UUID, roles ...enums.MemberRole) (bool, error) {
	held := s.roles[userID]
	for _, want := range roles {
		for _, have := range held {
			if want == have {
				return true, nil
			}
		}
	}
	return false, nil
}

type stubWorkOrders struct{}

func (stubWorkOrders) Create(ctx context.Context, branchID, actorUserID uuid.UUID, req workordersvc.CreateWorkOrderRequest) (*workordersvc.WorkOrderDTO, error) {
	return &workordersvc.WorkOrderDTO{}, nil
}

func (stubWorkOrders) Get(ctx context.Context, branchID, orderID uuid.UUID) (*workordersvc.WorkOrderDTO, error) {
	return &workordersvc.WorkOrderDTO{}, nil
}

func (stubWorkOrders) List(ctx context.Context, branchID uuid.UUID, status, kind string, params pagination.Params) ([]workordersvc.WorkOrderDTO, string, error) {
	return nil, "", nil
}

func (stubWorkOrders) AdminEdit(ctx context.Context, branchID, orderID uuid.UUID, req workordersvc.AdminEditRequest) (*workordersvc.WorkOrderDTO, error) {
	return &workordersvc.WorkOrderDTO{}, nil
}

func (stubWorkOrders) Done(ctx context.Context, branchID, orderID uuid.UUID, req workordersvc.DoneRequest) (*workordersvc.WorkOrderDTO, error) {
	return &workordersvc.WorkOrderDTO{}, nil
}

func (stubWorkOrders) Delete(ctx context.Context, branchID, orderID uuid.UUID) error {
	return nil
}

func (stubWorkOrders) AttachPart(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req workordersvc.AttachPartRequest) (*workordersvc.WorkOrderDTO, error) {
	return &workordersvc.WorkOrderDTO{}, nil
}

func (stubWorkOrders) WorkerAction(ctx context.Context, branchID, orderID, actorUserID uuid.UUID, req workordersvc.WorkerActionRequest) (*workordersvc.WorkerOrderDTO, error) {
	return &workordersvc.WorkerOrderDTO{}, nil
}

func (stubWorkOrders) ListWorkerOrders(ctx context.Context, branchID, actorUserID uuid.UUID) ([]workordersvc.WorkerOrderDTO, error) {
	return []workordersvc.WorkerOrderDTO{}, nil
}

func (stubWorkOrders) RepeatVisit(ctx context.Context, branchID, orderID uuid.UUID) (*workordersvc.RepeatVisit, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "otoservis-test",
			ExpirationMinutes: 15,
		},
	}
}

func testRouter(t *testing.T, checker *stubMembershipChecker) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:            testConfig(),
		Logger:            logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard}),
		SessionManager:    stubSessionManager{},
		WorkOrdersService: stubWorkOrders{},
		MembershipChecker: checker,
	})
}

func mintToken(t *testing.T, cfg config.JWTConfig, userID uuid.UUID, branchID *uuid.UUID, role enums.MemberRole, superuser bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:         userID,
		ActiveBranchID: branchID,
		Role:           role,
		IsSuperuser:    superuser,
		JTI:            uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHealthLive(t *testing.T) {
	handler := testRouter(t, &stubMembershipChecker{})
	rec := doRequest(t, handler, http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	handler := testRouter(t, &stubMembershipChecker{})
	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestWorkerCannotReachAdminRoutes(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()
	checker := &stubMembershipChecker{roles: map[uuid.UUID][]enums.MemberRole{
		userID: {enums.MemberRoleTech},
	}}
	handler := testRouter(t, checker)
	token := mintToken(t, testConfig().JWT, userID, &branchID, enums.MemberRoleTech, false)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestAdminCannotReachWorkerQueue(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()
	checker := &stubMembershipChecker{roles: map[uuid.UUID][]enums.MemberRole{
		userID: {enums.MemberRoleAdmin},
	}}
	handler := testRouter(t, checker)
	token := mintToken(t, testConfig().JWT, userID, &branchID, enums.MemberRoleAdmin, false)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders/my", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestWorkerQueueServesWorkerRank(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()
	checker := &stubMembershipChecker{roles: map[uuid.UUID][]enums.MemberRole{
		userID: {enums.MemberRoleWash},
	}}
	handler := testRouter(t, checker)
	token := mintToken(t, testConfig().JWT, userID, &branchID, enums.MemberRoleWash, false)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders/my", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestSuperuserBypassesMembershipCheck(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()
	handler := testRouter(t, &stubMembershipChecker{})
	token := mintToken(t, testConfig().JWT, userID, &branchID, enums.MemberRoleAdmin, true)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}
}

func TestBranchContextRequired(t *testing.T) {
	userID := uuid.New()
	checker := &stubMembershipChecker{roles: map[uuid.UUID][]enums.MemberRole{
		userID: {enums.MemberRoleAdmin},
	}}
	handler := testRouter(t, checker)
	token := mintToken(t, testConfig().JWT, userID, nil, enums.MemberRoleAdmin, false)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/workorders", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestSuperuserAdminSurfaceGated(t *testing.T) {
	userID := uuid.New()
	branchID := uuid.New()
	checker := &stubMembershipChecker{roles: map[uuid.UUID][]enums.MemberRole{
		userID: {enums.MemberRoleAdmin},
	}}
	handler := testRouter(t, checker)
	token := mintToken(t, testConfig().JWT, userID, &branchID, enums.MemberRoleAdmin, false)

	rec := doRequest(t, handler, http.MethodGet, "/api/v1/branches", token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
