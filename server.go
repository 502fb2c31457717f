package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"bitbucket.org/sarhadtyres/tyreshop_backend/config"
	"bitbucket.org/sarhadtyres/tyreshop_backend/middlewares"
	"bitbucket.org/sarhadtyres/tyreshop_backend/models"
	"bitbucket.org/sarhadtyres/tyreshop_backend/utils"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultPort = "8080"

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// requireSession gates a route group on SessionMiddleware having resolved a
// username.
func requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := utils.GetUsernameFromContext(c.Request.Context()); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// customErrorLogger logs only requests that collected errors, tagged with the
// request's correlation id.
func customErrorLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			fields := logrus.Fields{
				"path":   c.Request.URL.Path,
				"method": c.Request.Method,
			}
			if cid, ok := utils.GetCorrelationIdFromContext(c.Request.Context()); ok {
				fields["correlationId"] = cid
			}
			logger.WithFields(fields).Error(c.Errors.String())
		}
	}
}

func customNotFoundHandler(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
}

func splitAndTrim(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func main() {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = os.Getenv("PORT")
	}
	if port == "" {
		port = defaultPort
	}

	logger := config.GetLogger()

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	// Start the HTTP server ASAP; app endpoints return 503 until the DB is up.
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
		if c.Request.URL.Path == "/healthz" {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		if config.GetDB() == nil {
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}
		c.Next()
	})

	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	corsConfig := cors.DefaultConfig()
	// In production, require an explicit allowlist via CORS_ALLOWED_ORIGINS.
	allowedOrigins := strings.TrimSpace(os.Getenv("CORS_ALLOWED_ORIGINS"))
	if strings.EqualFold(strings.TrimSpace(os.Getenv("GO_ENV")), "production") {
		if allowedOrigins == "" {
			corsConfig.AllowOrigins = []string{}
		} else {
			corsConfig.AllowOrigins = splitAndTrim(allowedOrigins)
		}
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("token", "Origin", "Content-Type", "Authorization")
	corsConfig.AddExposeHeaders("Content-Length")
	corsConfig.AllowCredentials = true
	r.Use(cors.New(corsConfig))

	r.Use(middlewares.SessionMiddleware())
	r.Use(customErrorLogger(logger))
	r.Use(gin.Recovery())

	r.POST("/login", loginHandler())
	r.POST("/logout", logoutHandler())

	api := r.Group("/", requireSession())
	{
		api.POST("/register", registerHandler())

		api.GET("/users", listUsersHandler())
		api.POST("/users", createUserHandler())
		api.PUT("/users/:id", updateUserHandler())
		api.DELETE("/users/:id", deleteUserHandler())
		api.GET("/users/phone-directory", phoneDirectoryHandler())

		api.GET("/purchases", listPurchasesHandler())
		api.POST("/purchases", createPurchaseHandler())
		api.PUT("/purchases/:id", updatePurchaseHandler())
		api.DELETE("/purchases/:id", deletePurchaseHandler())

		api.GET("/sales", listSalesHandler())
		api.POST("/sales", createSaleHandler())

		api.GET("/returns", listReturnsHandler())
		api.POST("/returns", createReturnHandler())

		api.GET("/transfers", listTransfersHandler())
		api.POST("/transfers", createTransferHandler())

		api.POST("/payments/customer", customerPaymentHandler())
		api.POST("/payments/company", companyPaymentHandler())

		api.GET("/ledgers/customer/:name", customerStatementHandler())
		api.GET("/ledgers/company/:name", companyStatementHandler())
		api.POST("/ledgers/customer", manualCustomerEntryHandler())
		api.POST("/ledgers/company", manualCompanyEntryHandler())
		api.DELETE("/ledgers/customer/:id", deleteCustomerEntryHandler())
		api.DELETE("/ledgers/company/:id", deleteCompanyEntryHandler())

		api.GET("/summaries/customers", customerSummariesHandler())
		api.GET("/summaries/companies", companySummariesHandler())

		api.GET("/dues/customers", customerDuesHandler())
		api.GET("/dues/companies", companyDuesHandler())

		api.GET("/stock", stockSummaryHandler())
		api.GET("/stock/totals", inventoryTotalsHandler())

		api.GET("/reports/profit-loss", profitLossHandler())

		api.GET("/catalog", listCatalogHandler())
		api.GET("/catalog/:id", getCatalogHandler())
		api.POST("/catalog", createCatalogHandler())
		api.DELETE("/catalog/:id", deleteCatalogHandler())
		api.GET("/catalog/lookup", catalogLookupHandler())
	}

	r.NoRoute(customNotFoundHandler)

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}
	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- srv.ListenAndServe()
	}()

	// Connect dependencies after the port is open.
	config.ConnectDatabaseWithRetry()
	config.ConnectRedisWithRetry()

	db := config.GetDB()
	sqlDB, _ := db.DB()
	defer func() {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
	}()
	// AutoMigrate runs DDL that can block tables; allow running migrations as
	// a separate job instead.
	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	} else {
		logger.WithFields(logrus.Fields{"field": "migrations"}).Warn("SKIP_MIGRATIONS=true; skipping AutoMigrate on startup")
	}

	// Set the session isolation level to READ COMMITTED
	for attempt := 1; ; attempt++ {
		err := db.Exec("SET SESSION TRANSACTION ISOLATION LEVEL READ COMMITTED").Error
		if err == nil {
			break
		}
		sleep := time.Second * time.Duration(1<<min(attempt, 5))
		if sleep > 30*time.Second {
			sleep = 30 * time.Second
		}
		logger.WithFields(logrus.Fields{
			"field":   "database",
			"attempt": attempt,
		}).Warn("failed to set isolation level; retrying in " + sleep.String() + ": " + err.Error())
		time.Sleep(sleep)
	}

	logger.WithFields(logrus.Fields{
		"info": "Connection Established",
	}).Info("listening on http://localhost:", port)

	select {
	case <-sigCtx.Done():
		// graceful shutdown below
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithFields(logrus.Fields{"field": "http"}).Error("server stopped unexpectedly: " + err.Error())
		}
	}

	shutdownTimeout := 30 * time.Second
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithFields(logrus.Fields{"field": "http"}).Error("graceful shutdown failed: " + err.Error())
	}

	if rdb := config.GetRedisDB(); rdb != nil {
		_ = rdb.Close()
	}
}
