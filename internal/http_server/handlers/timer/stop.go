package timer

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

type StopResponse struct {
	resp.Response
	ElapsedSeconds int64           `json:"elapsed_seconds"`
	Activity       models.Activity `json:"activity"`
}

func NewStop(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timer.NewStop"

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

		activityID, err := activityIDParam(r)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid activity id"))

			return
		}

		activity, elapsed, err := svc.Stop(r.Context(), activityID, sess.AccountID)
		if err != nil {
			switch {
			case errors.Is(err, storage.ErrTimerNotRunning), errors.Is(err, storage.ErrActivityNotFound):
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))
			default:
				log.Error("failed to stop timer", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("internal error"))
			}

			return
		}

		log.Info("timer stop handled",
			slog.Int64("activity_id", activityID),
			slog.Int64("elapsed_seconds", elapsed),
		)

		render.JSON(w, r, StopResponse{
			Response:       resp.OK(),
			ElapsedSeconds: elapsed,
			Activity:       activity,
		})
	}
}
