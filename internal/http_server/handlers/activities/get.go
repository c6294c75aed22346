package activities

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"scheduler_service/internal/http_server/middleware/session"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type GetResponse struct {
	resp.Response
	Activity models.Activity `json:"activity"`
}

func NewGet(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activities.NewGet"

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

		id, err := idParam(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid activity id"))

			return
		}

		a, err := svc.Get(r.Context(), id, sess.AccountID)
		if err != nil {
			if errors.Is(err, storage.ErrActivityNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to get activity", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, GetResponse{
			Response: resp.OK(),
			Activity: a,
		})
	}
}
