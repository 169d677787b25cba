package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/middleware"
	"github.com/MarkVallesAgbayani/AiToManabi-sub011/internal/models"
)

func callerFromContext(c *gin.Context) (models.CallerContext, bool) {
	return middleware.CallerFrom(c)
}
