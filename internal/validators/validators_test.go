package validators

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/xelth-com/docketgo/internal/apperr"
)

const validID = "65f0c0ffee0000000000abcd"

func expectMessage(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected validation error %q, got nil", want)
	}
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Expected validation kind, got %v", err)
	}
	if got := apperr.From(err).Message; got != want {
		t.Errorf("Message mismatch: got %q, want %q", got, want)
	}
}

func TestCreateJobBody(t *testing.T) {
	cases := []struct {
		body string
		want string
	}{
		{`{}`, "clientName is required"},
		{`{"clientName":"Acme"}`, "siteLocation is required"},
		{`{"clientName":"   ","siteLocation":"Site A"}`, "clientName is required"},
		{`{"clientName":42,"siteLocation":"Site A"}`, "clientName must be a string"},
		{`{"clientName":"Acme","siteLocation":"Site A","status":"closed"}`, `"status" is not allowed`},
		{`not json`, "Invalid JSON payload"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/jobs", strings.NewReader(tc.body))
		expectMessage(t, CreateJob.Apply(req), tc.want)
	}
}

func TestCreateJobBodySanitized(t *testing.T) {
	req := httptest.NewRequest("POST", "/jobs", strings.NewReader(`{"clientName":"  Acme ","siteLocation":"Site A"}`))
	if err := CreateJob.Apply(req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	raw, _ := io.ReadAll(req.Body)
	var body map[string]string
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatalf("Sanitized body is not JSON: %v", err)
	}
	if body["clientName"] != "Acme" {
		t.Errorf("Expected trimmed clientName, got %q", body["clientName"])
	}
}

func TestListJobsQuery(t *testing.T) {
	req := httptest.NewRequest("GET", "/jobs", nil)
	if err := ListJobs.Apply(req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	q := req.URL.Query()
	if q.Get("page") != "1" || q.Get("limit") != "10" {
		t.Errorf("Defaults not applied: %s", req.URL.RawQuery)
	}

	req = httptest.NewRequest("GET", "/jobs?status=closed&page=3&limit=5&unknown=x", nil)
	if err := ListJobs.Apply(req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	q = req.URL.Query()
	if q.Get("status") != "closed" || q.Get("page") != "3" || q.Get("limit") != "5" {
		t.Errorf("Values not preserved: %s", req.URL.RawQuery)
	}
	if q.Get("unknown") != "" {
		t.Errorf("Undeclared keys should be dropped: %s", req.URL.RawQuery)
	}

	req = httptest.NewRequest("GET", "/jobs?page=2.0&limit=1e1", nil)
	if err := ListJobs.Apply(req); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	q = req.URL.Query()
	if q.Get("page") != "2" || q.Get("limit") != "10" {
		t.Errorf("Whole numbers should be normalised to integers: %s", req.URL.RawQuery)
	}

	bad := map[string]string{
		"/jobs?status=pending":           "status must be either 'open' or 'closed'",
		"/jobs?page=0":                   "page must be at least 1",
		"/jobs?page=abc":                 "page must be a number",
		"/jobs?limit=-2":                 "limit must be at least 1",
		"/jobs?limit=2.5":                "limit must be a number",
		"/jobs?limit=101":                "limit must be at most 100",
		"/jobs?page=1000000000000000000": "page must be at most 100000",
	}
	for target, want := range bad {
		req := httptest.NewRequest("GET", target, nil)
		expectMessage(t, ListJobs.Apply(req), want)
	}
}

func TestJobIDParams(t *testing.T) {
	req := mux.SetURLVars(httptest.NewRequest("GET", "/jobs/x", nil), map[string]string{"id": "short"})
	expectMessage(t, GetJob.Apply(req), "Invalid job ID format")

	req = mux.SetURLVars(httptest.NewRequest("GET", "/jobs/x", nil), map[string]string{"id": validID})
	if err := GetJob.Apply(req); err != nil {
		t.Errorf("Valid id rejected: %v", err)
	}

	req = mux.SetURLVars(httptest.NewRequest("GET", "/jobs/x/dockets", nil), map[string]string{"jobId": validID + "0"})
	expectMessage(t, ListDockets.Apply(req), "Invalid jobId format")
}

func TestCreateDocketBody(t *testing.T) {
	valid := `{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`
	req := httptest.NewRequest("POST", "/", strings.NewReader(valid))
	if err := CreateDocketBody.ValidateBody(req); err != nil {
		t.Fatalf("Valid docket rejected: %v", err)
	}

	cases := []struct {
		body string
		want string
	}{
		{`{"date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, "supervisorName is required"},
		{`{"supervisorName":"Sue","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, "date is required"},
		{`{"supervisorName":"Sue","date":"2024-03-15","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, "date must be in DD-MM-YYYY format"},
		{`{"supervisorName":"Sue","date":"31-02-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, "date must be a valid calendar date"},
		{`{"supervisorName":"Sue","date":"00-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}]}`, "date must be a valid calendar date"},
		{`{"supervisorName":"Sue","date":"15-03-2024"}`, "labourItems is required"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[]}`, "labourItems must contain at least one item"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":"x"}`, "labourItems must be an array"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"role":"mason","hoursWorked":8}]}`, "workerName is required"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"","hoursWorked":8}]}`, "role is required"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason"}]}`, "hoursWorked is required"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":0}]}`, "hoursWorked must be greater than 0"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":-3}]}`, "hoursWorked must be greater than 0"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":"8"}]}`, "hoursWorked must be a number"},
		{`{"supervisorName":"Sue","date":"15-03-2024","labourItems":[{"workerName":"Bob","role":"mason","hoursWorked":8}],"notes":5}`, "notes must be a string"},
	}

	for _, tc := range cases {
		req := httptest.NewRequest("POST", "/", strings.NewReader(tc.body))
		expectMessage(t, CreateDocketBody.ValidateBody(req), tc.want)
	}
}

func TestListDocketsQuery(t *testing.T) {
	vars := map[string]string{"jobId": validID}

	req := mux.SetURLVars(httptest.NewRequest("GET", "/?from=01-03-2024&to=31-03-2024&supervisorName=sue", nil), vars)
	if err := ListDockets.Apply(req); err != nil {
		t.Fatalf("Valid query rejected: %v", err)
	}
	if req.URL.Query().Get("supervisorName") != "sue" {
		t.Errorf("supervisorName lost: %s", req.URL.RawQuery)
	}

	req = mux.SetURLVars(httptest.NewRequest("GET", "/?from=2024-03-01", nil), vars)
	expectMessage(t, ListDockets.Apply(req), "from must be in DD-MM-YYYY format")

	req = mux.SetURLVars(httptest.NewRequest("GET", "/?to=1-3-2024", nil), vars)
	expectMessage(t, ListDockets.Apply(req), "to must be in DD-MM-YYYY format")
}
