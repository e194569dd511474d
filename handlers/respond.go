package handlers

import (
	"errors"
	"net/http"

	"clinicore/services/admin"
	"clinicore/services/scheduling"
	"clinicore/utils"

	"github.com/gin-gonic/gin"
)

// serviceError maps the scheduling error taxonomy onto HTTP statuses:
// validation 400, auth 401, not-found 404, conflict 409, everything else 500.
func serviceError(c *gin.Context, err error) {
	var (
		notFound   scheduling.NotFoundError
		conflict   scheduling.ConflictError
		validation scheduling.ValidationError
	)
	switch {
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "validation_failed", validation.Error(), "")
	case errors.As(err, &notFound):
		utils.JSONError(c, http.StatusNotFound, "not_found", notFound.Error(), "")
	case errors.As(err, &conflict):
		utils.JSONError(c, http.StatusConflict, "conflict", conflict.Error(), "")
	case errors.Is(err, admin.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password", "")
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal_error", "Something went wrong", err.Error())
	}
}

func bindError(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "bad_request", "Malformed request body", err.Error())
}
