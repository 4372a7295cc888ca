package controller

import (
	"net/http"

	"splitledger-backend/internal/model"

	"github.com/gin-gonic/gin"
)

func RegisterHealthRoutes(router *gin.Engine) {
	router.GET("/healthz", HealthCheck)
}

// HealthCheck godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      json
// @Success      200  {object}  model.Response
// @Router       /healthz [get]
func HealthCheck(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, model.NewResponse("", "ok"))
}
