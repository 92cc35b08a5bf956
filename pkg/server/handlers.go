// Copyright 2025 Leadline AI
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/leadline-ai/leadline/pkg/deploy"
	"github.com/leadline-ai/leadline/pkg/draft"
)

// snapshot is the wizard state envelope returned to the shell.
type snapshot struct {
	SessionID string            `json:"sessionId"`
	Step      int               `json:"step"`
	Errors    map[string]string `json:"errors"`
	Draft     *draft.Draft      `json:"draft"`
}

func (s *Server) currentSnapshot() snapshot {
	return snapshot{
		SessionID: s.store.SessionID(),
		Step:      s.store.Step(),
		Errors:    s.store.Errors(),
		Draft:     s.store.Draft(),
	}
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.currentSnapshot())
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	var partial map[string]any
	if err := json.NewDecoder(r.Body).Decode(&partial); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if _, err := s.store.Replace(partial); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.RecordDraftUpdate(r.Context())
	writeJSON(w, http.StatusOK, s.currentSnapshot())
}

func (s *Server) handleUpdateAtPath(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path  string `json:"path"`
		Value any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if _, err := s.store.UpdateAtPath(req.Path, req.Value); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.metrics.RecordDraftUpdate(r.Context())
	writeJSON(w, http.StatusOK, s.currentSnapshot())
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Step   int    `json:"step"`
		Action string `json:"action"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	switch req.Action {
	case "next":
		s.store.NextStep()
	case "prev":
		s.store.PrevStep()
	case "":
		s.store.SetStep(req.Step)
	default:
		writeError(w, http.StatusBadRequest, "unknown step action (valid: next, prev, or a step number)")
		return
	}
	writeJSON(w, http.StatusOK, s.currentSnapshot())
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	s.store.Reset()
	writeJSON(w, http.StatusOK, s.currentSnapshot())
}

func (s *Server) handleValidation(w http.ResponseWriter, _ *http.Request) {
	d := s.store.Draft()
	writeJSON(w, http.StatusOK, map[string]bool{
		"personaComplete": draft.IsPersonaComplete(d),
		"knowledgeUsable": draft.IsKnowledgeUsable(d),
		"canDeploy":       draft.CanDeploy(d),
	})
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	tool := chi.URLParam(r, "tool")
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	start := time.Now()
	result, err := s.simulator.Run(r.Context(), tool, s.store.Draft(), req.Message)
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.metrics.RecordSimRun(r.Context(), tool, result.Success, time.Since(start).Seconds())
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDeploy(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	created, err := s.coordinator.Deploy(r.Context())
	s.metrics.RecordDeploy(r.Context(), "deploy", time.Since(start).Seconds(), err)
	if err != nil {
		writeDeployError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"agent":    created,
		"redirect": "/agents/" + created.ID,
	})
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	start := time.Now()
	updated, err := s.coordinator.Update(r.Context(), id)
	s.metrics.RecordDeploy(r.Context(), "update", time.Since(start).Seconds(), err)
	if err != nil {
		writeDeployError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleTest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Message     string  `json:"message"`
		Model       string  `json:"model"`
		Temperature float64 `json:"temperature"`
		MaxTokens   int     `json:"max_tokens"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}

	resp, err := s.coordinator.Test(r.Context(), id, deploy.TestRequest{
		Message:     req.Message,
		Model:       req.Model,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		writeDeployError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// writeDeployError maps coordinator error kinds to HTTP statuses:
// validation failures are the shell's fault, backend rejections are
// relayed as bad gateway.
func writeDeployError(w http.ResponseWriter, err error) {
	var verr *deploy.ValidationError
	if errors.As(err, &verr) {
		writeError(w, http.StatusUnprocessableEntity, verr.Error())
		return
	}
	var derr *deploy.DeployError
	if errors.As(err, &derr) {
		writeError(w, http.StatusBadGateway, derr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
