package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vivemedellin/vivemedellin/services"
	"github.com/vivemedellin/vivemedellin/utils"
)

// respondError writes err in the standard envelope. The business code is
// the HTTP status followed by two zeros, e.g. 40400 for not found.
func respondError(ctx *gin.Context, err error) {
	status := services.StatusOf(err)
	if status == http.StatusInternalServerError {
		utils.Logger.Error("request failed",
			zap.String("method", ctx.Request.Method),
			zap.String("path", ctx.Request.URL.Path),
			zap.Error(err),
		)
	}
	utils.Error(ctx, status, status*100, services.MessageOf(err))
}

func badPayload(ctx *gin.Context) {
	utils.Error(ctx, http.StatusBadRequest, 40000, "invalid request payload")
}
