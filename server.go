package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/mmdatafocus/clinicops_backend/config"
	"bitbucket.org/mmdatafocus/clinicops_backend/middlewares"
	"bitbucket.org/mmdatafocus/clinicops_backend/models"
	"bitbucket.org/mmdatafocus/clinicops_backend/reports"
	"bitbucket.org/mmdatafocus/clinicops_backend/sheetstore"
	"bitbucket.org/mmdatafocus/clinicops_backend/utils"
	"bitbucket.org/mmdatafocus/clinicops_backend/wizard"
	"bitbucket.org/mmdatafocus/clinicops_backend/workflow"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
)

const defaultPort = "8080"

var tracer = otel.Tracer("clinicops-backend")

var (
	deps          workflow.Deps
	wizardManager *wizard.Manager
)

func ready() bool {
	return config.GetSheetsService() != nil && config.GetRedisDB() != nil && deps.Cache != nil
}

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	// Cloud Run sends SIGTERM on revision shutdown; handle it for graceful drain.
	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	r := gin.New()
	// Correlation IDs: generate once per request and attach to context.
	r.Use(func(c *gin.Context) {
		cid := c.GetHeader("x-correlation-id")
		if cid == "" {
			cid = uuid.NewString()
		}
		c.Request = c.Request.WithContext(utils.SetCorrelationIdInContext(c.Request.Context(), cid))
		c.Next()
	})
	r.Use(func(c *gin.Context) {
		// Always allow the startup probe.
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		// Gate app endpoints on dependency readiness.
		if !ready() {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	if origins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS")); origins != "" {
		corsConfig.AllowOrigins = strings.Split(origins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SessionMiddleware())
	r.Use(gin.Recovery())

	r.POST("/login", loginHandler())
	r.POST("/logout", logoutHandler())

	authed := r.Group("/", middlewares.RequireSession())
	authed.GET("/wizard", wizardStateHandler())
	authed.POST("/wizard/next", wizardNextHandler())
	authed.POST("/wizard/back", wizardBackHandler())
	authed.POST("/wizard/submit", wizardSubmitHandler())
	authed.POST("/incidents", incidentHandler())
	authed.GET("/service-logs", serviceLogsGetHandler())
	authed.POST("/service-logs", serviceLogHandler())
	authed.GET("/reminders", remindersGetHandler())
	authed.POST("/reminders", remindersPostHandler())
	authed.GET("/service-contacts", serviceContactsHandler())

	supervised := r.Group("/reports", middlewares.RequireSession(), middlewares.RequireSupervisor())
	supervised.GET("/adherence", adherenceHandler())
	supervised.GET("/adherence.xlsx", adherenceExportHandler())

	// Start listening immediately (startup probe is TCP based).
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectRedisWithRetry()
	config.ConnectSheetsWithRetry()

	store := sheetstore.NewSheetStore(config.GetSheetsService(), config.GetSpreadsheetId())
	exec := sheetstore.NewExecutor(logger)
	cache := sheetstore.NewCache(store, exec, models.AllTables(), config.CacheTTL(), config.GetRedisLock())

	deps = workflow.Deps{
		Store:    store,
		Cache:    cache,
		Exec:     exec,
		Logger:   logger,
		Now:      time.Now,
		Location: config.ReportLocation(),
	}
	wizardManager = wizard.NewManager(func(centerName string) *wizard.Definition {
		return workflow.NewDailyLogDefinition(deps, centerName)
	})

	if err := cache.EnsureTables(context.Background()); err != nil {
		logger.WithFields(logrus.Fields{"field": "startup"}).Error("failed to provision worksheets: " + err.Error())
	}

	log.Println("Server started successfully")

	// Block until shutdown or server error.
	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}
}

func loginHandler() gin.HandlerFunc {
	type loginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
			return
		}

		result, err := workflow.ProcessLogin(c.Request.Context(), deps, req.Username, req.Password)
		if err != nil {
			if errors.Is(err, utils.ErrorInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
				return
			}
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func logoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := utils.GetTokenFromContext(c.Request.Context())
		if !ok {
			c.Status(http.StatusNoContent)
			return
		}
		if err := workflow.ProcessLogout(token); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		wizardManager.Remove(token)
		c.Status(http.StatusNoContent)
	}
}

func currentWizard(c *gin.Context) *wizard.Session {
	token, _ := utils.GetTokenFromContext(c.Request.Context())
	center, _ := utils.GetCenterNameFromContext(c.Request.Context())
	return wizardManager.Get(token, center)
}

func wizardState(sess *wizard.Session) gin.H {
	fields := sess.CurrentFields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name)
	}
	return gin.H{
		"step":      sess.Step(),
		"step_name": sess.StepName(),
		"fields":    names,
		"answers":   sess.Answers(),
	}
}

func wizardStateHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, wizardState(currentWizard(c)))
	}
}

type wizardInput struct {
	Answers map[string]string `json:"answers"`
}

func wizardNextHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wizardInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}
		sess := currentWizard(c)
		if err := sess.Next(req.Answers); err != nil {
			writeWizardError(c, err)
			return
		}
		c.JSON(http.StatusOK, wizardState(sess))
	}
}

func wizardBackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := currentWizard(c)
		if err := sess.Back(); err != nil {
			writeWizardError(c, err)
			return
		}
		c.JSON(http.StatusOK, wizardState(sess))
	}
}

func wizardSubmitHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wizardInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		ctx, span := tracer.Start(c.Request.Context(), "daily-log-submit")
		defer span.End()

		sess := currentWizard(c)
		answers, err := sess.Submit(req.Answers)
		if err != nil {
			writeWizardError(c, err)
			return
		}

		entry, err := workflow.ProcessDailyLogSubmission(ctx, deps, answers)
		if err != nil {
			// Wizard state is preserved so the user can retry as-is.
			writeStoreError(c, err)
			return
		}

		// Reset only after the write is confirmed.
		sess.Reset()
		c.JSON(http.StatusCreated, gin.H{"submission_id": entry.SubmissionId})
	}
}

func incidentHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.IncidentInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		incident, err := workflow.ProcessIncidentSubmission(c.Request.Context(), deps, input)
		if err != nil {
			if errors.Is(err, sheetstore.ErrQuotaExceeded) {
				writeStoreError(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": incident.Status})
	}
}

func serviceLogHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.ServiceLogInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		if _, err := workflow.ProcessServiceLogSubmission(c.Request.Context(), deps, input); err != nil {
			writeStoreError(c, err)
			return
		}
		c.Status(http.StatusCreated)
	}
}

func serviceLogsGetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logs, err := workflow.GetServiceLogs(c.Request.Context(), deps)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"service_logs": logs})
	}
}

func remindersGetHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		reminders, err := workflow.GetCurrentReminders(c.Request.Context(), deps)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reminders": reminders})
	}
}

func remindersPostHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var input workflow.ReminderInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"errors": utils.ProcessValidationErrors(err)})
			return
		}
		if _, err := workflow.RecordReminder(c.Request.Context(), deps, input); err != nil {
			if errors.Is(err, sheetstore.ErrQuotaExceeded) {
				writeStoreError(c, err)
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.Status(http.StatusCreated)
	}
}

func serviceContactsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts, err := workflow.GetServiceContacts(c.Request.Context(), deps)
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"contacts": contacts})
	}
}

func reportDays(c *gin.Context) int {
	days := 7
	if v := c.Query("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 92 {
			days = n
		}
	}
	return days
}

func adherenceHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "adherence-report")
		defer span.End()

		report, err := workflow.GetAdherenceReport(ctx, deps, reportDays(c))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		c.JSON(http.StatusOK, report)
	}
}

func adherenceExportHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "adherence-export")
		defer span.End()

		report, err := workflow.GetAdherenceReport(ctx, deps, reportDays(c))
		if err != nil {
			writeStoreError(c, err)
			return
		}
		data, err := reports.ExportAdherenceXLSX(*report)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="adherence.xlsx"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	}
}

func writeWizardError(c *gin.Context, err error) {
	var verr *wizard.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": verr.Fields})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
}

func writeStoreError(c *gin.Context, err error) {
	if errors.Is(err, sheetstore.ErrQuotaExceeded) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "remote store is rate limiting; try again shortly"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
