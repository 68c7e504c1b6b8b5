package handlers

import (
	"log/slog"
	"net/http"
)

// SearchHandler serves the search-alias table the server was configured
// with, so clients filter with the same expansions as the deployment.
type SearchHandler struct {
	aliases map[string][]string
	logger  *slog.Logger
}

// NewSearchHandler creates a search handler serving the given alias table.
func NewSearchHandler(aliases map[string][]string, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		aliases: aliases,
		logger:  logger,
	}
}

// AliasesResponse carries the effective search-alias table.
type AliasesResponse struct {
	Aliases map[string][]string `json:"aliases"`
}

// ListAliases handles GET /api/search-aliases.
func (h *SearchHandler) ListAliases(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, AliasesResponse{Aliases: h.aliases}, h.logger)
}
