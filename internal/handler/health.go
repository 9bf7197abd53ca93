package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maulidiphilip/money-manager-api/internal/model"
)

func Ping(c *gin.Context) {
	c.JSON(http.StatusOK, model.PingResponse{Message: "pong"})
}

func Status(c *gin.Context) {
	c.JSON(http.StatusOK, model.StatusResponse{Status: "ok"})
}

func Root(c *gin.Context) {
	c.JSON(http.StatusOK, model.RootResponse{
		Status:  "ok",
		Message: "Money Manager API is running",
	})
}
