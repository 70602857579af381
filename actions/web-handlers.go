package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"strings"

	"github.com/relloyd/costpipe/costbyeq"
	"github.com/relloyd/costpipe/logger"
)

type WebServerResponse uint32

const (
	Okay WebServerResponse = iota + 1
	Error
)

func (w WebServerResponse) MarshalJSON() ([]byte, error) {
	var retval string
	switch w {
	case Okay:
		retval = "ok"
	case Error:
		retval = "error"
	default:
		err := fmt.Errorf("unhandled WebServerResponse value in MarshalJSON() conversion")
		return nil, err
	}
	return json.Marshal(retval)
}

type ResponseSimple struct {
	ServerStatus WebServerResponse `json:"status"`
}

type ResponseRun struct {
	Status  WebServerResponse `json:"status"`
	Message string            `json:"message"`
	Summary *costbyeq.Summary `json:"summary,omitempty"`
}

// RunRequest holds optional overrides for a single run triggered over HTTP.
type RunRequest struct {
	Table     *string `json:"table"`
	Schema    *string `json:"schema"`
	Truncate  *bool   `json:"truncate"`
	BatchSize *int    `json:"batch_size"`
}

func (r RunRequest) apply(cfg *CostByEqConfig) {
	if r.Table != nil {
		cfg.Table = *r.Table
	}
	if r.Schema != nil {
		cfg.Schema = *r.Schema
	}
	if r.Truncate != nil {
		cfg.TruncateBeforeLoad = *r.Truncate
	}
	if r.BatchSize != nil {
		cfg.BatchSize = *r.BatchSize
	}
}

// CostByEqRunner executes one run.
type CostByEqRunner func(ctx context.Context, cfg *CostByEqConfig) (costbyeq.Summary, error)

func GetHandlerHealth(log logger.Logger) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay})
	}
}

func GetHandlerStopServer(log logger.Logger, chanStop chan string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		select {
		case chanStop <- "stop":
			log.Info("Stop signal sent")
		default: // a stop is already pending.
		}
		respond(log, w, http.StatusOK, ResponseSimple{ServerStatus: Okay})
	}
}

// GetHandlerRunCostByEq runs the ETL using template plus any overrides in the request body.
// Requests for a destination that is already being loaded get http.StatusConflict.
func GetHandlerRunCostByEq(log logger.Logger, template CostByEqConfig, guard *RunGuard, run CostByEqRunner) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := template
		b, err := ioutil.ReadAll(r.Body)
		if err != nil {
			respond(log, w, http.StatusBadRequest, ResponseRun{Status: Error, Message: fmt.Sprintf("error reading request: %v", err)})
			return
		}
		if strings.TrimSpace(string(b)) != "" {
			req := RunRequest{}
			if err := json.Unmarshal(b, &req); err != nil {
				respond(log, w, http.StatusBadRequest, ResponseRun{Status: Error, Message: fmt.Sprintf("error unmarshalling JSON: %v", err)})
				return
			}
			req.apply(&cfg)
		}
		release, ok := guard.TryAcquire(cfg.Destination())
		if !ok {
			log.Warn("Rejected run request: a run is in progress for ", cfg.Destination())
			respond(log, w, http.StatusConflict, ResponseRun{Status: Error, Message: fmt.Sprintf("a run is already in progress for %v", cfg.Destination())})
			return
		}
		defer release()
		s, err := run(r.Context(), &cfg)
		if err != nil {
			log.Error("Run failed: ", err)
			respond(log, w, http.StatusInternalServerError, ResponseRun{Status: Error, Message: err.Error(), Summary: &s})
			return
		}
		respond(log, w, http.StatusOK, ResponseRun{Status: Okay, Message: "run complete", Summary: &s})
	}
}

// respond will marshal i and write it to w with the given status code.
func respond(log logger.Logger, w http.ResponseWriter, code int, i interface{}) {
	j, err := json.MarshalIndent(i, "", "  ")
	if err != nil {
		log.Error(err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err = w.Write(j); err != nil {
		log.Error(err)
	}
}
