package activities

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"scheduler_service/internal/http_server/middleware/session"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
)

type ListResponse struct {
	resp.Response
	Activities []models.Activity `json:"activities"`
}

func NewList(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activities.NewList"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		sess, ok := session.FromContext(r.Context())
		if !ok {
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, resp.Error("not authorized"))

			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		activities, err := svc.List(r.Context(), sess.AccountID, limit, offset)
		if err != nil {
			log.Error("failed to list activities", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, ListResponse{
			Response:   resp.OK(),
			Activities: activities,
		})
	}
}
