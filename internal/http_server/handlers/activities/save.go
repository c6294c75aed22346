// Package activities exposes the owner-scoped activity CRUD endpoints.
package activities

import (
	"context"
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
)

type Service interface {
	Create(ctx context.Context, accountID int64, title, content string, timeBudgetSeconds int64) (models.Activity, error)
	Get(ctx context.Context, id, accountID int64) (models.Activity, error)
	List(ctx context.Context, accountID int64, limit, offset int) ([]models.Activity, error)
	Update(ctx context.Context, id, accountID int64, a models.Activity) (models.Activity, error)
	Delete(ctx context.Context, id, accountID int64) error
}

type SaveRequest struct {
	Title             string `json:"title" validate:"required"`
	Content           string `json:"content"`
	TimeBudgetSeconds int64  `json:"time_budget_seconds"`
}

type SaveResponse struct {
	resp.Response
	Activity models.Activity `json:"activity"`
}

func NewSave(log *slog.Logger, svc Service) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.activities.NewSave"

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

		var req SaveRequest

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

		a, err := svc.Create(r.Context(), sess.AccountID, req.Title, req.Content, req.TimeBudgetSeconds)
		if err != nil {
			log.Error("failed to create activity", sl.Err(err))

			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, resp.Error("internal error"))

			return
		}

		log.Info("activity created", slog.Int64("id", a.ID))

		render.JSON(w, r, SaveResponse{
			Response: resp.OK(),
			Activity: a,
		})
	}
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
