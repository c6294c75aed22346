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
	"scheduler_service/internal/storage"
)

type DeleteResponse struct {
	resp.Response
}

func NewDelete(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activities.NewDelete"

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

		if err := svc.Delete(r.Context(), id, sess.AccountID); err != nil {
			if errors.Is(err, storage.ErrActivityNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to delete activity", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("activity deleted", slog.Int64("id", id))

		render.JSON(w, r, DeleteResponse{Response: resp.OK()})
	}
}
