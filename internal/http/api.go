package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"account-service/internal/domain"
	"account-service/internal/security"
	"account-service/internal/service"
)

// Handler wires HTTP routes to the account service.
type Handler struct {
	accounts service.AccountService
	tokens   security.TokenVerifier
	logger   *logrus.Logger
}

// NewHandler returns a Handler; a nil logger gets a default logrus logger.
func NewHandler(accounts service.AccountService, tokens security.TokenVerifier, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts: accounts,
		tokens:   tokens,
		logger:   logger,
	}
}

// RegisterRoutes mounts the health and account routes under /api.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestLogger(h.logger), corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/health", func(ctx *gin.Context) {
			ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		accounts := api.Group("/accounts")
		accounts.POST("/register", h.register)
		accounts.POST("/login", h.login)

		authed := accounts.Group("", h.requireAuth())
		authed.GET("/profile", h.getProfile)
		authed.GET("/:id", h.getAccount)
		authed.PUT("/:id", h.updateAccount)
	}
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if !bindAndValidate(c, &req) {
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthDate"})
		return
	}

	profile, err := h.accounts.Register(c.Request.Context(), domain.Registration{
		GivenNames:      req.GivenNames,
		Surnames:        req.Surnames,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		BirthDate:       birthDate,
		Password:        req.Password,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, profileToResponse(*profile))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	result, err := h.accounts.Login(c.Request.Context(), domain.Credentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, loginToResponse(*result))
}

func (h *Handler) getProfile(c *gin.Context) {
	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	profile, err := h.accounts.GetByEmail(c.Request.Context(), caller.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*profile))
}

func (h *Handler) getAccount(c *gin.Context) {
	id, ok := parseAccountID(c)
	if !ok {
		return
	}

	profile, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*profile))
}

// updateAccount only lets callers modify the account whose stored email
// matches their token identity.
func (h *Handler) updateAccount(c *gin.Context) {
	id, ok := parseAccountID(c)
	if !ok {
		return
	}

	caller, ok := callerFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req updateRequest
	if !bindAndValidate(c, &req) {
		return
	}

	birthDate, err := parseDate(req.BirthDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid birthDate"})
		return
	}

	current, err := h.accounts.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if current.Email != caller.Email {
		c.JSON(http.StatusForbidden, gin.H{"error": "you can only update your own account"})
		return
	}

	updated, err := h.accounts.Update(c.Request.Context(), id, domain.Profile{
		ID:              id,
		GivenNames:      req.GivenNames,
		Surnames:        req.Surnames,
		ShippingAddress: req.ShippingAddress,
		Email:           req.Email,
		BirthDate:       birthDate,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, profileToResponse(*updated))
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrPasswordTooLong):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request data",
			"details": []ValidationError{{
				Field:   "password",
				Message: "Must be at most " + strconv.Itoa(maxPasswordBytes) + " bytes",
				Type:    "maxbytes",
			}},
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.logger.WithField("request_id", c.GetString(requestIDKey)).Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func parseAccountID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid account id"})
		return 0, false
	}
	return id, true
}
