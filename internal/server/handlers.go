package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/alexanderramin/dretree/internal/contract"
	"github.com/alexanderramin/dretree/internal/domain"
)

const maxBodyBytes = 1 << 20

func (s *Server) handleChildren(w http.ResponseWriter, r *http.Request) {
	parent := r.URL.Query().Get("parent")
	if parent == "" {
		parent = domain.RootContext
	}
	nodes, err := s.svc.GetOrderedChildren(r.Context(), parent)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.ChildrenResponse{ParentContext: parent, Nodes: nodes})
}

func (s *Server) handleOrderedTree(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.svc.GetOrderedTree(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TreeResponse{Ordered: true, Nodes: emptyIfNil(nodes)})
}

func (s *Server) handleTree(w http.ResponseWriter, r *http.Request) {
	nodes, err := s.svc.GetTree(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.TreeResponse{Ordered: false, Nodes: emptyIfNil(nodes)})
}

func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	var batch contract.ReorderBatch
	if err := decodeJSON(w, r, &batch); err != nil {
		s.writeError(w, r, err)
		return
	}
	applied, err := s.svc.ReorderBatch(r.Context(), batch, RequestID(r.Context()))
	if err != nil {
		_, code := errorStatus(err)
		s.metrics.rejectedTotal.WithLabelValues(code).Inc()
		s.writeError(w, r, err)
		return
	}
	s.metrics.batchItems.Observe(float64(applied))
	writeJSON(w, http.StatusOK, contract.ReorderResponse{ParentContext: batch.ParentContext, Applied: applied})
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req contract.NormalizeRequest
	if r.ContentLength != 0 {
		if err := decodeJSON(w, r, &req); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	res, err := s.svc.Normalize(r.Context(), req.ParentContext)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.metrics.normalizedNodes.Add(float64(res.Nodes))
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.writeError(w, r, fmt.Errorf("%w: limit must be a positive integer", errBadRequest))
			return
		}
		limit = n
	}
	entries, err := s.svc.History(r.Context(), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if entries == nil {
		entries = []*domain.OrderLogEntry{}
	}
	writeJSON(w, http.StatusOK, contract.HistoryResponse{Entries: entries})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	active, err := s.svc.OrderingActive(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.HealthResponse{Status: "ok", OrderingActive: active})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: decoding body: %v", errBadRequest, err)
	}
	return nil
}

func emptyIfNil(nodes []*domain.Node) []*domain.Node {
	if nodes == nil {
		return []*domain.Node{}
	}
	return nodes
}
