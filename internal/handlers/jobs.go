package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/xelth-com/docketgo/internal/apperr"
	"github.com/xelth-com/docketgo/internal/models"
	"github.com/xelth-com/docketgo/internal/response"
	"github.com/xelth-com/docketgo/internal/services/jobs"
	"github.com/xelth-com/docketgo/internal/store"
)

func (r *Router) createJob(w http.ResponseWriter, req *http.Request) error {
	var in jobs.CreateInput
	if err := decodeJSON(req, &in); err != nil {
		return err
	}

	job, err := r.jobs.Create(req.Context(), in)
	if err != nil {
		return err
	}
	response.Success(w, http.StatusCreated, "Job created successfully", job)
	return nil
}

func (r *Router) listJobs(w http.ResponseWriter, req *http.Request) error {
	q := req.URL.Query()
	// page and limit are defaulted and checked by the query schema
	page, err := strconv.Atoi(q.Get("page"))
	if err != nil || page < 1 {
		return apperr.Validation("page must be a number")
	}
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit < 1 {
		return apperr.Validation("limit must be a number")
	}
	filter := store.JobFilter{
		Status: models.JobStatus(q.Get("status")),
		Page:   page,
		Limit:  limit,
	}

	list, total, err := r.jobs.List(req.Context(), filter)
	if err != nil {
		return err
	}
	response.Page(w, "Jobs fetched successfully", list, response.NewPagination(total, page, limit))
	return nil
}

func (r *Router) getJob(w http.ResponseWriter, req *http.Request) error {
	detail, err := r.jobs.Get(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	response.Success(w, http.StatusOK, "Job fetched successfully", detail)
	return nil
}

func (r *Router) closeJob(w http.ResponseWriter, req *http.Request) error {
	job, err := r.jobs.Close(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	response.Success(w, http.StatusOK, "Job closed successfully", job)
	return nil
}

// jobReport streams the printable PDF of a job
func (r *Router) jobReport(w http.ResponseWriter, req *http.Request) error {
	pdf, job, err := r.jobs.Report(req.Context(), mux.Vars(req)["id"])
	if err != nil {
		return err
	}
	sendFile(w, "application/pdf", job.JobNumber+".pdf", pdf)
	return nil
}
