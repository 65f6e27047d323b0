package api

import (
	"errors"
	"fmt"
	"time"

	apperrors "placement-advisor/internal/common/errors"
	"placement-advisor/internal/common/logger"
	"placement-advisor/internal/predictor"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const (
	headerRequestID = "X-Request-ID"
	localsRequestID = "requestId"
)

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error *apperrors.StandardError `json:"error"`
}

func requestID(c fiber.Ctx) string {
	id, _ := c.Locals(localsRequestID).(string)
	return id
}

// requestLogMiddleware assigns a request id and writes one access log line per request.
func requestLogMiddleware(log logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals(localsRequestID, rid)
		c.Set(headerRequestID, rid)

		err := c.Next()

		log.Info("HTTP access", map[string]interface{}{
			"requestId": rid,
			"method":    c.Method(),
			"path":      c.OriginalURL(),
			"status":    c.Response().StatusCode(),
			"latency":   time.Since(start).String(),
			"ip":        c.IP(),
		})
		return err
	}
}

// errorMiddleware renders handler errors as ErrorResponse and recovers panics.
func errorMiddleware(log logger.Logger) fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Panic recovered", map[string]interface{}{
					"requestId": requestID(c),
					"panic":     fmt.Sprint(r),
				})
				err = writeError(c, apperrors.NewInternalError(fmt.Errorf("panic: %v", r)))
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			se := apperrors.NewInvalidRequestError(fiberErr.Message)
			return c.Status(fiberErr.Code).JSON(ErrorResponse{Error: se})
		}

		se := apperrors.Normalize(err, predictor.Classify)
		if apperrors.HTTPStatus(se.Code) >= fiber.StatusInternalServerError {
			log.Error("Request failed", map[string]interface{}{
				"requestId": requestID(c),
				"code":      se.Code,
				"error":     err.Error(),
			})
		}
		return writeError(c, se)
	}
}

func writeError(c fiber.Ctx, se *apperrors.StandardError) error {
	return c.Status(apperrors.HTTPStatus(se.Code)).JSON(ErrorResponse{Error: se})
}
