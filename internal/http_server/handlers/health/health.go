package health

import (
	"net/http"

	"github.com/go-chi/render"

	resp "scheduler_service/internal/lib/api/response"
)

func New() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, resp.OK())
	}
}
