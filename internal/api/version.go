package api

import (
	"net/http"

	"github.com/shaharia-lab/stockroom/internal/build"
)

type versionResponse struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildDate string `json:"build_date"`
	Release   bool   `json:"release"`
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{
		Version:   build.Version,
		Commit:    build.CommitSHA,
		BuildDate: build.BuildDate,
		Release:   build.IsRelease(),
	})
}
