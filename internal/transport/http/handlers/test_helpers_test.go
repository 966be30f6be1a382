package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/baechuer/lease-service/internal/application/auth"
	"github.com/baechuer/lease-service/internal/application/lease"
	"github.com/baechuer/lease-service/internal/domain"
	"github.com/baechuer/lease-service/internal/infrastructure/memory"
	"github.com/baechuer/lease-service/internal/infrastructure/security"
	"github.com/baechuer/lease-service/internal/transport/http/middleware"
	"github.com/baechuer/lease-service/internal/transport/http/response"
)

// bankFunc adapts a function to lease.DecisionClient.
type bankFunc func(ctx context.Context, l domain.Lease, v domain.Vehicle) (domain.LeaseStatus, error)

func (f bankFunc) RequestDecision(ctx context.Context, l domain.Lease, v domain.Vehicle) (domain.LeaseStatus, error) {
	return f(ctx, l, v)
}

type fixture struct {
	users  *memory.UserRepo
	leases *memory.LeaseRepo
	signer *security.JWTSigner

	authH    *AuthHandler
	leaseH   *LeaseHandler
	vehicleH *VehicleHandler

	decide func() (domain.LeaseStatus, error)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		users:  memory.NewUserRepo(),
		signer: security.NewJWTSigner("handler-test-secret", ""),
		decide: func() (domain.LeaseStatus, error) { return domain.LeaseStatusApproved, nil },
	}
	vehicles := memory.NewVehicleRepo(memory.DevVehicles()...)
	f.leases = memory.NewLeaseRepo(vehicles)

	authSvc := auth.NewService(f.users, security.NewBcryptHasher(4), f.signer, auth.Config{})
	leaseSvc := lease.NewService(f.leases, vehicles, bankFunc(func(context.Context, domain.Lease, domain.Vehicle) (domain.LeaseStatus, error) {
		return f.decide()
	}))

	f.authH = NewAuthHandler(authSvc)
	f.leaseH = NewLeaseHandler(leaseSvc)
	f.vehicleH = NewVehicleHandler(leaseSvc)
	return f
}

func corollaID() string { return memory.DevVehicles()[0].ID }

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()

	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json marshal: %v", err)
	}
	return bytes.NewReader(b)
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()

	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil || len(env.Data) == 0 {
		t.Fatalf("decode envelope failed; body=%s", rr.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data failed; body=%s err=%v", rr.Body.String(), err)
	}
}

func mustReadErrCode(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()

	var body response.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body failed; body=%s", rr.Body.String())
	}
	return body.Error.Code
}

func withUserCtx(req *http.Request, userID, role string) *http.Request {
	return req.WithContext(middleware.WithUser(req.Context(), userID, role))
}

func withURLParam(req *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
