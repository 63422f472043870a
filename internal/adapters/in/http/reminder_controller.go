package http

import (
	"crypto/subtle"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicare-bj/maternity-reminder-engine/internal/config"
	"github.com/clinicare-bj/maternity-reminder-engine/internal/core/ports/in"
)

// ReminderController expose les déclencheurs manuels des trois tâches.
// L'authentification des opérateurs reste à la charge de l'appelant
// (tableau de bord); ici seul un jeton partagé protège la surface.
type ReminderController struct {
	useCase in.ReminderUseCase
	cfg     *config.Config
}

func NewReminderController(useCase in.ReminderUseCase, cfg *config.Config) *ReminderController {
	return &ReminderController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ReminderController) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/v1/health", c.health)

	api := router.Group("/api/v1")
	api.Use(c.triggerAuth())
	{
		api.POST("/reminders/run", c.runReminders)
		api.POST("/summaries/daily/run", c.runDailySummary)
		api.POST("/summaries/weekly/run", c.runWeeklySummary)
	}
}

func (c *ReminderController) health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "ok", "version": c.cfg.App.Version})
}

func (c *ReminderController) runReminders(ctx *gin.Context) {
	report, err := c.useCase.RunReminderPass(ctx.Request.Context())
	if err != nil {
		if errors.Is(err, in.ErrPassInProgress) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "a reminder pass is already running"})
			return
		}
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, report)
}

func (c *ReminderController) runDailySummary(ctx *gin.Context) {
	if err := c.useCase.RunDailySummary(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (c *ReminderController) runWeeklySummary(ctx *gin.Context) {
	if err := c.useCase.RunWeeklySummary(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": "sent"})
}

// triggerAuth exige le jeton partagé quand il est configuré. Comparaison en
// temps constant, comme pour tout secret.
func (c *ReminderController) triggerAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		secret := c.cfg.Trigger.SecretToken
		if secret == "" {
			ctx.Next()
			return
		}

		token := ctx.GetHeader("X-Trigger-Token")
		if subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid trigger token"})
			return
		}

		ctx.Next()
	}
}
