package handlers

import (
	"errors"

	"github.com/Abhishek40905/ancome-backend/internal/policy"
	"github.com/Abhishek40905/ancome-backend/internal/roster"
	"github.com/Abhishek40905/ancome-backend/internal/services"
	"github.com/Abhishek40905/ancome-backend/internal/store"
	"github.com/Abhishek40905/ancome-backend/pkg/logger"
	"github.com/Abhishek40905/ancome-backend/pkg/response"
	"github.com/gin-gonic/gin"
)

var conflictErrors = []error{
	roster.ErrAlreadyMember,
	roster.ErrAlreadyPending,
	roster.ErrNoPendingRequest,
	roster.ErrSelfRemoval,
	roster.ErrNotAMember,
	store.ErrVersionConflict,
	store.ErrDuplicateSlug,
}

// toAppError maps domain errors onto HTTP errors. Unknown errors yield nil.
func toAppError(err error) *response.AppError {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var ve *services.ValidationError
	switch {
	case errors.As(err, &ve):
		return response.NewBadRequest(ve.Error())
	case errors.Is(err, services.ErrInvalidState):
		return response.NewBadRequest(err.Error())
	case errors.Is(err, policy.ErrForbidden):
		return response.NewForbidden("you are not allowed to perform this action")
	case errors.Is(err, store.ErrNotFound):
		return response.NewNotFound("resource not found")
	case errors.Is(err, roster.ErrCommentNotFound):
		return response.NewNotFound(err.Error())
	}
	for _, target := range conflictErrors {
		if errors.Is(err, target) {
			return response.NewConflict(err.Error())
		}
	}
	return nil
}

// respondError writes the mapped error. Unexpected errors are logged and
// hidden behind a generic message.
func respondError(c *gin.Context, err error) {
	if appErr := toAppError(err); appErr != nil {
		response.Error(c, appErr)
		return
	}
	logger.Error().Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Str("user_id", c.GetString("user_id")).
		Msg("request failed")
	response.Error(c, err)
}
