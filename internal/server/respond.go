package server

import (
	"encoding/json"
	"net/http"
	"net/url"

	"tuinue/pkg/types"
)

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

func (s *Service) writeMessage(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"message": message})
}

func (s *Service) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Service) decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.logger.WithError(err).Debug("failed to decode request body")
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// pageParams decodes page/per_page from the query string and applies the
// defaults and cap.
func (s *Service) pageParams(values url.Values) types.PageParams {
	var params types.PageParams
	if err := decoder.Decode(&params, values); err != nil {
		s.logger.WithError(err).Debug("failed to decode page params, using defaults")
	}
	params.Normalize()
	return params
}
