package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"go-medscan/internal/config"
	apperrors "go-medscan/internal/errors"
	"go-medscan/internal/logger"
	"go-medscan/internal/service"
)

// AnalysisRequest asks for one scan to be analyzed.
type AnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
}

// BatchAnalysisRequest asks for several scans to be analyzed.
type BatchAnalysisRequest struct {
	URLs []string `json:"urls" binding:"required,min=1,max=50,dive,url"`
}

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewHandler configures the HTTP routes around the analysis service.
func NewHandler(svc service.ScanAnalysisService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", metricsHandler(svc))
	r.POST("/analyze", analyzeScan(svc, cfg))
	r.POST("/analyze/batch", analyzeScanBatch(svc, cfg))

	return r
}

func analyzeScan(svc service.ScanAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Info("Processing scan analysis request")

		var req AnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).Error("Invalid request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		result, err := svc.AnalyzeScan(ctx, req.URL)
		if err != nil {
			respondError(c, statusFor(err), "scan analysis failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"url":                req.URL,
			"prediction":         result.Prediction,
			"risk_level":         result.RiskLevel,
			"confidence":         result.Confidence,
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Scan analysis request completed")

		c.JSON(http.StatusOK, result)
	}
}

func analyzeScanBatch(svc service.ScanAnalysisService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		var req BatchAnalysisRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			logger.WithError(err).Error("Invalid batch request format")
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}

		results, err := svc.AnalyzeScanBatch(ctx, req.URLs)
		if err != nil {
			respondError(c, statusFor(err), "batch analysis failed", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"results": results})
	}
}

func metricsHandler(svc service.ScanAnalysisService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, svc.Metrics())
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Middleware and helper functions

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, statusFor(err), "request processing failed", err)
		}
	}
}

func statusFor(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
