package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jeevaraksha/hospital-api/internal/auth"
	"github.com/jeevaraksha/hospital-api/internal/beds"
	"github.com/jeevaraksha/hospital-api/internal/patients"
	pkgauth "github.com/jeevaraksha/hospital-api/pkg/auth"
	"github.com/jeevaraksha/hospital-api/pkg/config"
	"github.com/jeevaraksha/hospital-api/pkg/db/models"
	"github.com/jeevaraksha/hospital-api/pkg/enums"
)

var routerTestJWT = config.JWTConfig{Secret: "secret", Issuer: "jeeva-raksha", ExpirationMinutes: 480}

type stubAuthService struct{}

func (stubAuthService) Login(context.Context, auth.LoginRequest) (*auth.LoginResult, error) {
	return &auth.LoginResult{}, nil
}
func (stubAuthService) DemoLogin(context.Context, auth.DemoRequest) (*auth.DemoResult, error) {
	return &auth.DemoResult{}, nil
}
func (stubAuthService) CurrentUser(context.Context, pkgauth.Identity) (*auth.MeResult, error) {
	return &auth.MeResult{}, nil
}
func (stubAuthService) Logout(context.Context, string, auth.RequestMeta) {}

type stubPatientService struct {
	createdBy  pkgauth.Identity
	deletedBy  pkgauth.Identity
	deleteHard bool
}

func (s *stubPatientService) List(context.Context, patients.ListFilter) (*patients.ListResult, error) {
	return &patients.ListResult{}, nil
}
func (s *stubPatientService) GetByID(context.Context, uuid.UUID) (*models.Patient, error) {
	return &models.Patient{}, nil
}
func (s *stubPatientService) GetByUHID(context.Context, string) (*models.Patient, error) {
	return &models.Patient{}, nil
}
func (s *stubPatientService) Create(_ context.Context, actor pkgauth.Identity, _ patients.CreateRequest) (*models.Patient, error) {
	s.createdBy = actor
	return &models.Patient{}, nil
}
func (s *stubPatientService) Update(_ context.Context, actor pkgauth.Identity, _ uuid.UUID, _ patients.UpdateRequest) (*models.Patient, error) {
	return &models.Patient{}, nil
}
func (s *stubPatientService) Delete(_ context.Context, actor pkgauth.Identity, _ uuid.UUID, hard bool) (*patients.DeleteResult, error) {
	s.deletedBy = actor
	s.deleteHard = hard
	return &patients.DeleteResult{}, nil
}

type stubBedService struct{}

func (stubBedService) ListWards(context.Context) ([]beds.WardSummary, error) {
	return nil, nil
}
func (stubBedService) CreateWard(context.Context, pkgauth.Identity, beds.CreateWardRequest) (*models.Ward, error) {
	return &models.Ward{}, nil
}
func (stubBedService) UpdateWard(context.Context, pkgauth.Identity, uuid.UUID, beds.UpdateWardRequest) (*models.Ward, error) {
	return &models.Ward{}, nil
}
func (stubBedService) DeleteWard(context.Context, pkgauth.Identity, uuid.UUID) (*beds.DeleteResult, error) {
	return &beds.DeleteResult{}, nil
}
func (stubBedService) ListBeds(context.Context, beds.ListBedsFilter) ([]beds.BedSummary, error) {
	return nil, nil
}
func (stubBedService) CreateBed(context.Context, pkgauth.Identity, beds.CreateBedRequest) (*models.Bed, error) {
	return &models.Bed{}, nil
}
func (stubBedService) UpdateBed(context.Context, pkgauth.Identity, uuid.UUID, beds.UpdateBedRequest) (*models.Bed, error) {
	return &models.Bed{}, nil
}
func (stubBedService) DeleteBed(context.Context, pkgauth.Identity, uuid.UUID) (*beds.DeleteResult, error) {
	return &beds.DeleteResult{}, nil
}

func newTestRouter(patientSvc patients.Service) http.Handler {
	cfg := &config.Config{JWT: routerTestJWT}
	cfg.App.Env = config.AppEnvDev
	return NewRouter(Deps{
		Config:         cfg,
		AuthService:    stubAuthService{},
		PatientService: patientSvc,
		BedService:     stubBedService{},
	})
}

func mintRouterToken(t *testing.T, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.Mint(routerTestJWT, time.Now(), pkgauth.TokenPayload{
		UserID: uuid.New(),
		Name:   "Router Test",
		Email:  "router@hospital.test",
		Role:   role,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doRequest(router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

const createPatientBody = `{"name":"Ravi Kumar","date_of_birth":"1988-04-12","gender":"male"}`

func TestPatientMutationsOpenToAllStaff(t *testing.T) {
	svc := &stubPatientService{}
	router := newTestRouter(svc)
	token := mintRouterToken(t, enums.RoleDoctor)

	resp := doRequest(router, http.MethodPost, "/api/patients", token, createPatientBody)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected doctor to create patient, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.createdBy.Role != enums.RoleDoctor {
		t.Fatalf("expected doctor actor, got %q", svc.createdBy.Role)
	}

	resp = doRequest(router, http.MethodPatch, "/api/patients/"+uuid.NewString(), token, `{"phone":"9876500000"}`)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected doctor to update patient, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(router, http.MethodDelete, "/api/patients/"+uuid.NewString(), token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected doctor to delete patient, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestPatientHardDeleteHonoredOnlyForAdmins(t *testing.T) {
	svc := &stubPatientService{}
	router := newTestRouter(svc)

	resp := doRequest(router, http.MethodDelete, "/api/patients/"+uuid.NewString()+"?hard=true", mintRouterToken(t, enums.RoleNurse), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected nurse delete to pass, got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.deleteHard {
		t.Fatal("expected hard flag to be dropped for non-admins")
	}

	resp = doRequest(router, http.MethodDelete, "/api/patients/"+uuid.NewString()+"?hard=true", mintRouterToken(t, enums.RoleAdmin), "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected admin hard delete to pass, got %d: %s", resp.Code, resp.Body.String())
	}
	if !svc.deleteHard {
		t.Fatal("expected hard flag to be honored for admins")
	}
}

func TestWardMutationsStayAdminOnly(t *testing.T) {
	router := newTestRouter(&stubPatientService{})

	resp := doRequest(router, http.MethodPost, "/api/wards", mintRouterToken(t, enums.RoleDoctor), `{"name":"ICU","code":"ICU-1"}`)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for doctor ward create, got %d", resp.Code)
	}

	resp = doRequest(router, http.MethodPost, "/api/wards", mintRouterToken(t, enums.RoleAdmin), `{"name":"ICU","code":"ICU-1"}`)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected admin ward create to pass, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestDemoSessionsStayReadOnlyOnPatients(t *testing.T) {
	router := newTestRouter(&stubPatientService{})
	token := mintRouterToken(t, enums.RoleDemo)

	resp := doRequest(router, http.MethodGet, "/api/patients", token, "")
	if resp.Code != http.StatusOK {
		t.Fatalf("expected demo read to pass, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doRequest(router, http.MethodPost, "/api/patients", token, createPatientBody)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for demo patient create, got %d", resp.Code)
	}
}
