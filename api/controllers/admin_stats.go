package controllers

import (
	"net/http"

	"github.com/nengoo-market/nengoo-backend/api/responses"
	"github.com/nengoo-market/nengoo-backend/internal/admins"
	pkgerrors "github.com/nengoo-market/nengoo-backend/pkg/errors"
	"github.com/nengoo-market/nengoo-backend/pkg/logger"
)

// AdminDashboard returns platform-wide order statistics.
func AdminDashboard(svc admins.StatsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "stats service unavailable"))
			return
		}

		dashboard, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dashboard)
	}
}
