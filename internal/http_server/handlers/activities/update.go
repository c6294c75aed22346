package activities

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"scheduler_service/internal/http_server/middleware/session"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
	"scheduler_service/internal/models"
	"scheduler_service/internal/storage"
)

type UpdateRequest struct {
	Title             string `json:"title" validate:"required"`
	Content           string `json:"content"`
	TimeBudgetSeconds int64  `json:"time_budget_seconds"`
}

type UpdateResponse struct {
	resp.Response
	Activity models.Activity `json:"activity"`
}

func NewUpdate(log *slog.Logger, svc Service) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activities.NewUpdate"

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

		var req UpdateRequest

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

		updated, err := svc.Update(r.Context(), id, sess.AccountID, models.Activity{
			Title:             req.Title,
			Content:           req.Content,
			TimeBudgetSeconds: req.TimeBudgetSeconds,
		})
		if err != nil {
			if errors.Is(err, storage.ErrActivityNotFound) {
				render.Status(r, http.StatusNotFound)
				render.JSON(w, r, resp.Error("not found"))

				return
			}

			log.Error("failed to update activity", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("activity updated", slog.Int64("id", id))

		render.JSON(w, r, UpdateResponse{
			Response: resp.OK(),
			Activity: updated,
		})
	}
}
