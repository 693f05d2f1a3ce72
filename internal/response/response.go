// Package response writes the uniform JSON envelope used by every endpoint.
package response

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/xelth-com/docketgo/internal/apperr"
)

// InternalErrorMessage is sent for every unexpected failure
const InternalErrorMessage = "Internal Server Error"

// Envelope is the wire shape of every response
type Envelope struct {
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes a page of a larger result set
type Pagination struct {
	TotalCount      int64 `json:"totalCount"`
	CurrentPage     int   `json:"currentPage"`
	TotalPages      int64 `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// NewPagination computes page metadata. limit must be >= 1.
func NewPagination(totalCount int64, page, limit int) *Pagination {
	l := int64(limit)
	return &Pagination{
		TotalCount:      totalCount,
		CurrentPage:     page,
		TotalPages:      (totalCount + l - 1) / l,
		HasNextPage:     int64(page)*l < totalCount,
		HasPreviousPage: page > 1,
	}
}

// Write is the single result-to-response mapping
func Write(w http.ResponseWriter, code int, ok bool, message string, data interface{}, pagination *Pagination) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(Envelope{
		Status:     ok,
		Message:    message,
		Data:       data,
		Pagination: pagination,
	})
}

// Success writes a status:true envelope
func Success(w http.ResponseWriter, code int, message string, data interface{}) {
	Write(w, code, true, message, data, nil)
}

// Page writes a status:true envelope with pagination metadata
func Page(w http.ResponseWriter, message string, data interface{}, pagination *Pagination) {
	Write(w, http.StatusOK, true, message, data, pagination)
}

// Error maps err onto a status:false envelope. Internal errors are logged
// with their cause and answered with a generic message.
func Error(w http.ResponseWriter, logger logrus.FieldLogger, err error) {
	e := apperr.From(err)
	code := e.StatusCode()

	message := e.Message
	if e.Kind == apperr.KindInternal {
		message = InternalErrorMessage
		if logger != nil {
			logger.WithError(err).Error("request failed")
		}
	} else if logger != nil {
		logger.WithField("status", code).Debug(e.Message)
	}

	Write(w, code, false, message, nil, nil)
}
