package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/xelth-com/docketgo/internal/response"
	"github.com/xelth-com/docketgo/internal/services/dockets"
	"github.com/xelth-com/docketgo/internal/validators"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// createDocket validates the body only after the job is known to be open,
// so a closed job answers 409 whatever the payload.
func (r *Router) createDocket(w http.ResponseWriter, req *http.Request) error {
	bind := func(in *dockets.CreateInput) error {
		if err := validators.CreateDocketBody.ValidateBody(req); err != nil {
			return err
		}
		return decodeJSON(req, in)
	}

	docket, err := r.dockets.Create(req.Context(), mux.Vars(req)["jobId"], bind)
	if err != nil {
		return err
	}
	response.Success(w, http.StatusCreated, "Docket created successfully", docket)
	return nil
}

func (r *Router) listDockets(w http.ResponseWriter, req *http.Request) error {
	list, err := r.dockets.ListByJob(req.Context(), mux.Vars(req)["jobId"], docketQuery(req))
	if err != nil {
		return err
	}
	response.Success(w, http.StatusOK, "Dockets fetched successfully", list)
	return nil
}

func (r *Router) exportDockets(w http.ResponseWriter, req *http.Request) error {
	data, job, err := r.dockets.Export(req.Context(), mux.Vars(req)["jobId"], docketQuery(req))
	if err != nil {
		return err
	}
	sendFile(w, xlsxContentType, job.JobNumber+"-dockets.xlsx", data)
	return nil
}

func (r *Router) docketSummary(w http.ResponseWriter, req *http.Request) error {
	summary, err := r.dockets.Summary(req.Context())
	if err != nil {
		return err
	}
	response.Success(w, http.StatusOK, "Docket summary fetched successfully", summary)
	return nil
}

func docketQuery(req *http.Request) dockets.Query {
	q := req.URL.Query()
	return dockets.Query{
		From:           q.Get("from"),
		To:             q.Get("to"),
		SupervisorName: q.Get("supervisorName"),
	}
}
