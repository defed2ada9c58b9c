package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"wedding-rsvp/services"
	"wedding-rsvp/utils"
)

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindNotFound:
		return http.StatusNotFound
	case services.KindInvalidArgument:
		return http.StatusBadRequest
	case services.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error": ...}. Service errors carry their own
// message; anything else is logged and answered with fallback.
func respondError(c *gin.Context, err error, fallback string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		code := statusFor(svcErr.Kind)
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ request failed")
		}
		utils.JSONError(c, code, svcErr.Message)
		return
	}

	log.Error().Err(err).Str("path", c.FullPath()).Msg("❌ " + fallback)
	utils.JSONError(c, http.StatusInternalServerError, fallback)
}

func badBody(c *gin.Context) {
	utils.JSONError(c, http.StatusBadRequest, services.MsgInvalidRequestBody)
}
