package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wildanre/ponder-etherlink/internal/query"
)

func (s *Server) handleListPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.svc.ListPools(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch pools")
		return
	}
	count := len(pools)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: pools, Count: &count})
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	pool, err := s.svc.GetPool(r.Context(), mux.Vars(r)["poolAddress"])
	if err != nil {
		s.writeServiceError(w, r, err, "Pool not found")
		return
	}
	s.writeData(w, pool)
}

func (s *Server) handleSearchPools(w http.ResponseWriter, r *http.Request) {
	var req struct {
		query.PoolFilter
		query.Page
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	res, err := s.svc.SearchPools(r.Context(), req.PoolFilter, req.Page)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to search pools")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handlePoolActivities(w http.ResponseWriter, r *http.Request) {
	view, err := s.svc.PoolActivities(r.Context(), mux.Vars(r)["poolAddress"])
	if err != nil {
		s.writeServiceError(w, r, err, "Pool not found")
		return
	}
	s.writeData(w, view)
}

func (s *Server) handlePoolPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.svc.PoolPositions(r.Context(), mux.Vars(r)["poolAddress"])
	if err != nil {
		s.writeServiceError(w, r, err, "Pool not found")
		return
	}
	count := len(positions)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: positions, Count: &count})
}

func (s *Server) handleListPositions(w http.ResponseWriter, r *http.Request) {
	positions, err := s.svc.ListPositions(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch positions")
		return
	}
	count := len(positions)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: positions, Count: &count})
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	pos, err := s.svc.GetPosition(r.Context(), mux.Vars(r)["positionId"])
	if err != nil {
		s.writeServiceError(w, r, err, "Position not found")
		return
	}
	s.writeData(w, pos)
}

func (s *Server) handlePositionsByUser(w http.ResponseWriter, r *http.Request) {
	positions, err := s.svc.PositionsByUser(r.Context(), mux.Vars(r)["userAddress"])
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch user positions")
		return
	}
	count := len(positions)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: positions, Count: &count})
}

func (s *Server) handlePositionHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.svc.PositionHistory(r.Context(), mux.Vars(r)["positionId"])
	if err != nil {
		s.writeServiceError(w, r, err, "Position not found")
		return
	}
	s.writeData(w, history)
}

func (s *Server) handleSearchPositions(w http.ResponseWriter, r *http.Request) {
	var req struct {
		query.PositionFilter
		query.Page
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	res, err := s.svc.SearchPositions(r.Context(), req.PositionFilter, req.Page)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to search positions")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PositionIDs []string `json:"positionIds"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}
	if len(req.PositionIDs) == 0 {
		s.writeBadRequest(w, "positionIds array is required")
		return
	}

	scores, err := s.svc.HealthCheck(r.Context(), req.PositionIDs)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to check position health")
		return
	}

	// Ids without a score are reported explicitly, matching the per-id
	// error shape clients already consume.
	data := make(map[string]any, len(req.PositionIDs))
	for _, id := range req.PositionIDs {
		if ph, ok := scores[id]; ok {
			data[id] = ph
		} else {
			data[id] = map[string]string{"error": "Position not found"}
		}
	}
	s.writeData(w, data)
}

func (s *Server) handleLiquidationCandidates(w http.ResponseWriter, r *http.Request) {
	req := struct {
		HealthThreshold float64 `json:"healthThreshold"`
		Limit           int     `json:"limit"`
	}{HealthThreshold: 20, Limit: 100}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	cands, err := s.svc.LiquidationCandidates(r.Context(), req.HealthThreshold, req.Limit)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to find liquidation candidates")
		return
	}
	count := len(cands)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: cands, Count: &count})
}

func (s *Server) handleListActivities(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ListActivities(r.Context(), r.URL.Query().Get("type"), pageFromQuery(r))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch activities")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handleActivitiesByUser(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.ActivitiesByUser(r.Context(), mux.Vars(r)["userAddress"], pageFromQuery(r))
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch user activities")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handleSearchActivities(w http.ResponseWriter, r *http.Request) {
	var req struct {
		query.Filter
		query.Page
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	res, err := s.svc.SearchActivities(r.Context(), req.Filter, req.Page)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to search activities")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handleActivityAnalytics(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Timeframe string `json:"timeframe"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	sum, err := s.svc.ActivityAnalytics(r.Context(), req.Timeframe)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch activity analytics")
		return
	}
	s.writeData(w, sum)
}

func (s *Server) handleUserProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.UserProfile(r.Context(), mux.Vars(r)["userAddress"])
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch user profile")
		return
	}
	s.writeData(w, profile)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SortBy    string `json:"sortBy"`
		Timeframe string `json:"timeframe"`
		Limit     int    `json:"limit"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	board, err := s.svc.Leaderboard(r.Context(), req.SortBy, req.Timeframe, req.Limit)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch user leaderboard")
		return
	}
	count := len(board)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: board, Count: &count})
}

func (s *Server) handleUserSearch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		query.UserSearchFilter
		query.Page
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	res, err := s.svc.UserSearch(r.Context(), req.UserSearchFilter, req.Page)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to search users")
		return
	}
	s.writeList(w, res.Items, len(res.Items), res.Total, res.Pagination)
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Overview(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch overview stats")
		return
	}
	s.writeData(w, o)
}

func (s *Server) handlePoolStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.AllPoolStats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch pool stats")
		return
	}
	count := len(stats)
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Data: stats, Count: &count})
}

func (s *Server) handleTokenStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.TokenStats(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch token stats")
		return
	}
	s.writeData(w, stats)
}

func (s *Server) handleHistorical(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Timeframe string `json:"timeframe"`
		Interval  string `json:"interval"`
	}
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "malformed request body")
		return
	}

	buckets, err := s.svc.Historical(r.Context(), req.Timeframe, req.Interval)
	if err != nil {
		s.writeServiceError(w, r, err, "Failed to fetch historical stats")
		return
	}
	s.writeData(w, buckets)
}
