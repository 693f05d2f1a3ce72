package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"

	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/store/memory"
	"github.com/xelth-com/docketgo/internal/utils"
)

type envelope struct {
	Status     bool            `json:"status"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		TotalCount      int64 `json:"totalCount"`
		CurrentPage     int   `json:"currentPage"`
		TotalPages      int64 `json:"totalPages"`
		HasNextPage     bool  `json:"hasNextPage"`
		HasPreviousPage bool  `json:"hasPreviousPage"`
	} `json:"pagination"`
}

type testAPI struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestAPI(t *testing.T, secret string) *testAPI {
	t.Helper()
	logger, _ := test.NewNullLogger()
	r := NewRouter(Config{Store: memory.New(), Logger: logger, JWTSecret: secret})
	return &testAPI{t: t, handler: r.Handler()}
}

func (a *testAPI) do(method, path, body string) (*httptest.ResponseRecorder, envelope) {
	a.t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)

	var env envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			a.t.Fatalf("Invalid envelope %q: %v", rr.Body.String(), err)
		}
	}
	return rr, env
}

func (a *testAPI) expect(method, path, body string, code int, message string) envelope {
	a.t.Helper()
	rr, env := a.do(method, path, body)
	if rr.Code != code {
		a.t.Fatalf("%s %s: expected %d, got %d: %s", method, path, code, rr.Code, rr.Body.String())
	}
	if message != "" && env.Message != message {
		a.t.Fatalf("%s %s: expected message %q, got %q", method, path, message, env.Message)
	}
	if env.Status != (code < 400) {
		a.t.Fatalf("%s %s: status flag %v for code %d", method, path, env.Status, code)
	}
	return env
}

func (a *testAPI) createJob(client string) models.Job {
	a.t.Helper()
	env := a.expect(http.MethodPost, "/jobs", `{"clientName":"`+client+`","siteLocation":"Site A"}`, http.StatusCreated, "Job created successfully")
	var job models.Job
	if err := json.Unmarshal(env.Data, &job); err != nil {
		a.t.Fatalf("Invalid job: %v", err)
	}
	return job
}

const masonDocket = `{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8},{"workerName":"Eve","role":"electrician","hoursWorked":5}]}`

func TestCreateJobsSequentialNumbers(t *testing.T) {
	api := newTestAPI(t, "")

	first := api.createJob("Acme")
	second := api.createJob("Globex")

	if first.JobNumber != "JOB-0001" || second.JobNumber != "JOB-0002" {
		t.Errorf("Expected JOB-0001 and JOB-0002, got %s and %s", first.JobNumber, second.JobNumber)
	}
	if first.Status != models.JobStatusOpen || len(first.ID) != models.IDLength {
		t.Errorf("Unexpected job %+v", first)
	}
}

func TestCreateJobValidation(t *testing.T) {
	api := newTestAPI(t, "")

	api.expect(http.MethodPost, "/jobs", `{"siteLocation":"Site A"}`, http.StatusBadRequest, "clientName is required")
	api.expect(http.MethodPost, "/jobs", `{"clientName":"  ","siteLocation":"Site A"}`, http.StatusBadRequest, "clientName is required")
	api.expect(http.MethodPost, "/jobs", `{"clientName":"Acme"`, http.StatusBadRequest, "Invalid JSON payload")

	// Nothing was persisted, so the counter was never touched
	if job := api.createJob("Acme"); job.JobNumber != "JOB-0001" {
		t.Errorf("Expected JOB-0001, got %s", job.JobNumber)
	}
}

func TestCreateDocketStoresUTCMidnight(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")

	env := api.expect(http.MethodPost, "/jobs/"+job.ID+"/dockets", masonDocket, http.StatusCreated, "Docket created successfully")

	var docket models.Docket
	if err := json.Unmarshal(env.Data, &docket); err != nil {
		t.Fatalf("Invalid docket: %v", err)
	}
	if !docket.Date.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected 2024-03-15T00:00:00Z, got %v", docket.Date)
	}
	if !strings.Contains(string(env.Data), `"date":"2024-03-15T00:00:00Z"`) {
		t.Errorf("Expected UTC midnight on the wire, got %s", env.Data)
	}
	if docket.JobID != job.ID || len(docket.LabourItems) != 2 {
		t.Errorf("Unexpected docket %+v", docket)
	}
}

func TestGetJob(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	api.expect(http.MethodPost, "/jobs/"+job.ID+"/dockets", masonDocket, http.StatusCreated, "")

	env := api.expect(http.MethodGet, "/jobs/"+job.ID, "", http.StatusOK, "Job fetched successfully")
	var detail models.JobWithDockets
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("Invalid detail: %v", err)
	}
	if detail.Job.ID != job.ID || len(detail.Dockets) != 1 {
		t.Errorf("Unexpected detail %+v", detail)
	}

	api.expect(http.MethodGet, "/jobs/"+models.NewID(), "", http.StatusNotFound, "Job not found")
	api.expect(http.MethodGet, "/jobs/abc", "", http.StatusBadRequest, "Invalid job ID format")
}

func TestCloseJobIdempotent(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")

	for i := 0; i < 2; i++ {
		env := api.expect(http.MethodPatch, "/jobs/"+job.ID+"/close", "", http.StatusOK, "Job closed successfully")
		var closed models.Job
		json.Unmarshal(env.Data, &closed)
		if closed.Status != models.JobStatusClosed {
			t.Errorf("Close #%d: expected closed, got %s", i+1, closed.Status)
		}
	}

	api.expect(http.MethodPatch, "/jobs/"+models.NewID()+"/close", "", http.StatusNotFound, "Job not found")
}

func TestCreateDocketOnClosedJobConflicts(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	api.expect(http.MethodPatch, "/jobs/"+job.ID+"/close", "", http.StatusOK, "")

	// Conflict wins even when the body would fail validation
	api.expect(http.MethodPost, "/jobs/"+job.ID+"/dockets", `{"labourItems":[]}`, http.StatusConflict, "Job is closed, cannot create docket")
	api.expect(http.MethodPost, "/jobs/"+job.ID+"/dockets", masonDocket, http.StatusConflict, "Job is closed, cannot create docket")
}

func TestCreateDocketValidation(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	path := "/jobs/" + job.ID + "/dockets"

	api.expect(http.MethodPost, path, `{"supervisorName":"Sue","date":"15-03-2024","labourItems":[]}`, http.StatusBadRequest, "labourItems must contain at least one item")
	api.expect(http.MethodPost, path, `{"supervisorName":"Sue","date":"2024-03-15","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, http.StatusBadRequest, "date must be in DD-MM-YYYY format")
	api.expect(http.MethodPost, path, `{"supervisorName":"Sue","date":"31-02-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, http.StatusBadRequest, "date must be a valid calendar date")
	api.expect(http.MethodPost, path, `{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":0}]}`, http.StatusBadRequest, "hoursWorked must be greater than 0")
	api.expect(http.MethodPost, "/jobs/"+models.NewID()+"/dockets", masonDocket, http.StatusNotFound, "Job not found")
	api.expect(http.MethodPost, "/jobs/short/dockets", masonDocket, http.StatusBadRequest, "Invalid jobId format")

	env := api.expect(http.MethodGet, path, "", http.StatusOK, "Dockets fetched successfully")
	if string(env.Data) != "[]" {
		t.Errorf("Expected no dockets after failed creates, got %s", env.Data)
	}
}

func TestListDocketsFilters(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	path := "/jobs/" + job.ID + "/dockets"

	for _, body := range []string{
		`{"supervisorName":"Sue Smith","date":"01-03-2024","labourItems":[{"workerName":"a","role":"mason","hoursWorked":1}]}`,
		`{"supervisorName":"Tom","date":"10-03-2024","labourItems":[{"workerName":"b","role":"mason","hoursWorked":1}]}`,
		`{"supervisorName":"susan","date":"20-03-2024","labourItems":[{"workerName":"c","role":"mason","hoursWorked":1}]}`,
	} {
		api.expect(http.MethodPost, path, body, http.StatusCreated, "")
	}

	count := func(query string) []models.Docket {
		env := api.expect(http.MethodGet, path+query, "", http.StatusOK, "Dockets fetched successfully")
		var list []models.Docket
		if err := json.Unmarshal(env.Data, &list); err != nil {
			t.Fatalf("Invalid list: %v", err)
		}
		return list
	}

	all := count("")
	if len(all) != 3 || all[0].SupervisorName != "susan" {
		t.Errorf("Expected 3 dockets newest first, got %+v", all)
	}
	if got := count("?from=01-03-2024&to=10-03-2024"); len(got) != 2 {
		t.Errorf("Expected 2 in range, got %d", len(got))
	}
	if got := count("?supervisorName=SU"); len(got) != 2 {
		t.Errorf("Expected 2 by supervisor, got %d", len(got))
	}
	if got := count("?supervisorName=.*"); len(got) != 0 {
		t.Errorf("Supervisor filter must be literal, got %d", len(got))
	}

	api.expect(http.MethodGet, path+"?from=1-3-2024", "", http.StatusBadRequest, "from must be in DD-MM-YYYY format")
}

func TestDocketSummary(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	path := "/jobs/" + job.ID + "/dockets"

	api.expect(http.MethodPost, path, masonDocket, http.StatusCreated, "")
	api.expect(http.MethodPost, path, `{"supervisorName":"Sue","date":"16-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":4}]}`, http.StatusCreated, "")

	env := api.expect(http.MethodGet, "/dockets/summary", "", http.StatusOK, "Docket summary fetched successfully")
	var summary models.DocketSummary
	if err := json.Unmarshal(env.Data, &summary); err != nil {
		t.Fatalf("Invalid summary: %v", err)
	}
	if summary.TotalDockets != 2 {
		t.Errorf("Expected 2 dockets, got %d", summary.TotalDockets)
	}
	if summary.TotalHoursByRole["mason"] != 12 || summary.TotalHoursByRole["electrician"] != 5 {
		t.Errorf("Unexpected hours by role: %v", summary.TotalHoursByRole)
	}
}

func TestListJobsPagination(t *testing.T) {
	api := newTestAPI(t, "")
	for _, c := range []string{"a", "b", "c"} {
		api.createJob(c)
	}

	env := api.expect(http.MethodGet, "/jobs?page=2&limit=2", "", http.StatusOK, "Jobs fetched successfully")
	var list []models.Job
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 || list[0].JobNumber != "JOB-0001" {
		t.Errorf("Expected the oldest job on page 2, got %+v", list)
	}
	p := env.Pagination
	if p == nil {
		t.Fatal("Expected pagination")
	}
	if p.TotalCount != 3 || p.CurrentPage != 2 || p.TotalPages != 2 || p.HasNextPage || !p.HasPreviousPage {
		t.Errorf("Unexpected pagination %+v", *p)
	}

	env = api.expect(http.MethodGet, "/jobs", "", http.StatusOK, "")
	if env.Pagination.CurrentPage != 1 || env.Pagination.TotalPages != 1 {
		t.Errorf("Expected defaults page=1 limit=10, got %+v", *env.Pagination)
	}

	env = api.expect(http.MethodGet, "/jobs?status=closed", "", http.StatusOK, "")
	if string(env.Data) != "[]" {
		t.Errorf("Expected empty list, got %s", env.Data)
	}

	api.expect(http.MethodGet, "/jobs?status=done", "", http.StatusBadRequest, "status must be either 'open' or 'closed'")
	api.expect(http.MethodGet, "/jobs?page=0", "", http.StatusBadRequest, "page must be at least 1")
}

func TestListJobsNormalisesQuery(t *testing.T) {
	api := newTestAPI(t, "")
	for _, c := range []string{"a", "b", "c"} {
		api.createJob(c)
	}

	env := api.expect(http.MethodGet, "/jobs?limit=2.0", "", http.StatusOK, "Jobs fetched successfully")
	if p := env.Pagination; p.CurrentPage != 1 || p.TotalPages != 2 || !p.HasNextPage {
		t.Errorf("Unexpected pagination for limit=2.0: %+v", *p)
	}

	env = api.expect(http.MethodGet, "/jobs?limit=1e1", "", http.StatusOK, "")
	if p := env.Pagination; p.TotalPages != 1 || p.HasNextPage {
		t.Errorf("Unexpected pagination for limit=1e1: %+v", *p)
	}

	env = api.expect(http.MethodGet, "/jobs?page=2.0&limit=2", "", http.StatusOK, "")
	if p := env.Pagination; p.CurrentPage != 2 || p.HasNextPage || !p.HasPreviousPage {
		t.Errorf("Unexpected pagination for page=2.0: %+v", *p)
	}
	var list []models.Job
	json.Unmarshal(env.Data, &list)
	if len(list) != 1 {
		t.Errorf("Expected one job on page 2, got %d", len(list))
	}
}

func TestListJobsBounds(t *testing.T) {
	api := newTestAPI(t, "")
	api.createJob("a")

	api.expect(http.MethodGet, "/jobs?page=1000000000000000000&limit=10", "", http.StatusBadRequest, "page must be at most 100000")
	api.expect(http.MethodGet, "/jobs?limit=500", "", http.StatusBadRequest, "limit must be at most 100")

	env := api.expect(http.MethodGet, "/jobs?page=100000&limit=100", "", http.StatusOK, "")
	if string(env.Data) != "[]" {
		t.Errorf("Expected empty page past the end, got %s", env.Data)
	}
}

func TestActiveAndUnknownRoutes(t *testing.T) {
	api := newTestAPI(t, "")

	rr, env := api.do(http.MethodGet, "/active", "")
	if rr.Code != http.StatusOK || !env.Status || env.Message != "Job-Docket API is running" {
		t.Errorf("Unexpected /active response %d %+v", rr.Code, env)
	}
	if env.Data != nil {
		t.Errorf("Expected no data field, got %s", env.Data)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Error("Expected request id header")
	}

	api.expect(http.MethodGet, "/nope", "", http.StatusNotFound, "Route not found")
	api.expect(http.MethodDelete, "/jobs", "", http.StatusNotFound, "Route not found")
	api.expect(http.MethodGet, "/health", "", http.StatusOK, "OK")
}

func TestReportAndExport(t *testing.T) {
	api := newTestAPI(t, "")
	job := api.createJob("Acme")
	api.expect(http.MethodPost, "/jobs/"+job.ID+"/dockets", masonDocket, http.StatusCreated, "")

	rr, _ := api.do(http.MethodGet, "/jobs/"+job.ID+"/report", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != "application/pdf" {
		t.Fatalf("Unexpected report response %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rr.Body.String(), "%PDF") {
		t.Error("Report is not a PDF")
	}
	if !strings.Contains(rr.Header().Get("Content-Disposition"), "JOB-0001.pdf") {
		t.Errorf("Unexpected disposition %q", rr.Header().Get("Content-Disposition"))
	}

	rr, _ = api.do(http.MethodGet, "/jobs/"+job.ID+"/dockets/export", "")
	if rr.Code != http.StatusOK || rr.Header().Get("Content-Type") != xlsxContentType {
		t.Fatalf("Unexpected export response %d %s", rr.Code, rr.Header().Get("Content-Type"))
	}

	api.expect(http.MethodGet, "/jobs/"+models.NewID()+"/report", "", http.StatusNotFound, "Job not found")
	api.expect(http.MethodGet, "/jobs/"+models.NewID()+"/dockets/export", "", http.StatusNotFound, "Job not found")
}

func TestAuthOnMutatingRoutes(t *testing.T) {
	secret := "s3cret"
	api := newTestAPI(t, secret)

	api.expect(http.MethodPost, "/jobs", `{"clientName":"Acme","siteLocation":"Site A"}`, http.StatusUnauthorized, "Authorization header required")
	api.expect(http.MethodGet, "/jobs", "", http.StatusOK, "Jobs fetched successfully")

	token, err := utils.GenerateToken("tablet", secret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	api.token = token
	if job := api.createJob("Acme"); job.JobNumber != "JOB-0001" {
		t.Errorf("Expected JOB-0001, got %s", job.JobNumber)
	}
}
