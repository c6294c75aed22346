package register

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"scheduler_service/internal/auth"
	resp "scheduler_service/internal/lib/api/response"
	sl "scheduler_service/internal/lib/logger"
)

type Request struct {
	Email string `json:"email" validate:"required"`
	Pass  string `json:"password" validate:"required"`
}

type Response struct {
	resp.Response
	AccountID int64 `json:"account_id"`
}

type Registrar interface {
	Register(ctx context.Context, email, password string) (int64, error)
}

func New(log *slog.Logger, registrar Registrar) http.HandlerFunc {
	validate := validator.New()

	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.register.New"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request

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

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		accountID, err := registrar.Register(ctx, req.Email, req.Pass)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
				render.Status(r, http.StatusBadRequest)
				render.JSON(w, r, resp.Error(err.Error()))
			case errors.Is(err, auth.ErrAccountExists):
				render.Status(r, http.StatusUnprocessableEntity)
				render.JSON(w, r, resp.Error("account already exists"))
			default:
				log.Error("failed to register account", sl.Err(err))

				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, resp.Error("internal error"))
			}

			return
		}

		log.Info("account registered", slog.Int64("id", accountID))

		render.JSON(w, r, Response{
			Response:  resp.OK(),
			AccountID: accountID,
		})
	}
}
