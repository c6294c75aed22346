// Package timer exposes the start/stop endpoints of the timer state machine.
package timer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"scheduler_service/internal/http_server/middleware/session"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type Service interface {
	Start(ctx context.Context, activityID, accountID int64) (int64, error)
	Stop(ctx context.Context, activityID, accountID int64) (models.Activity, int64, error)
}

type StartResponse struct {
	resp.Response
	ElapsedSeconds int64 `json:"elapsed_seconds"`
}

func NewStart(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timer.NewStart"

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

		elapsed, err := svc.Start(r.Context(), activityID, sess.AccountID)
		if err != nil {
			if errors.Is(err, storage.ErrActivityNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to start timer", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("timer start handled", slog.Int64("activity_id", activityID))

		render.JSON(w, r, StartResponse{
			Response:       resp.OK(),
			ElapsedSeconds: elapsed,
		})
	}
}

func activityIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "activity_id"), 10, 64)
}
