// Package timespent exposes the manual time entry endpoints.
package timespent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"scheduler_service/internal/http_server/middleware/session"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type Service interface {
	Add(ctx context.Context, activityID, accountID, seconds int64) (models.TimeSpent, error)
	ByActivity(ctx context.Context, activityID, accountID int64) ([]models.TimeSpent, error)
}

type AddRequest struct {
	ActivityID int64 `json:"activity_id" validate:"required"`
	Seconds    int64 `json:"seconds" validate:"required,gt=0"`
}

type AddResponse struct {
	resp.Response
	TimeSpent models.TimeSpent `json:"time_spent"`
}

func NewAdd(log *slog.Logger, svc Service) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timespent.NewAdd"

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

		var req AddRequest

		if err := render.DecodeJSON(r.Body, &req); err != nil {
			log.Error("failed to decode request body", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("failed to decode request"))

			return
		}

		if err := validate.Struct(req); err != nil {
			validateErr := err.(validator.ValidationErrors)

			log.Error("invalid request", sl.Err(err))

			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.ValidationError(validateErr))

			return
		}

		ts, err := svc.Add(r.Context(), req.ActivityID, sess.AccountID, req.Seconds)
		if err != nil {
			if errors.Is(err, storage.ErrActivityNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to add time spent", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("time spent added", slog.Int64("activity_id", req.ActivityID))

		render.JSON(w, r, AddResponse{
			Response:  resp.OK(),
			TimeSpent: ts,
		})
	}
}

type ListResponse struct {
	resp.Response
	Entries []models.TimeSpent `json:"entries"`
}

func NewList(log *slog.Logger, svc Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.timespent.NewList"

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

		activityID, err := strconv.ParseInt(chi.URLParam(r, "activity_id"), 10, 64)
		if err != nil {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, resp.Error("invalid activity id"))

			return
		}

		entries, err := svc.ByActivity(r.Context(), activityID, sess.AccountID)
		if err != nil {
			log.Error("failed to list time spent", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		render.JSON(w, r, ListResponse{
			Response: resp.OK(),
			Entries:  entries,
		})
	}
}
