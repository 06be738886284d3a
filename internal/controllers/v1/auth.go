package v1

import (
	"net/http"
	"strings"

	"github.com/fincontrol/backend/internal/auth"
	"github.com/fincontrol/backend/internal/httputil"
	"github.com/fincontrol/backend/internal/models"
	"github.com/gin-gonic/gin"
)

// RegisterRequest is the body for creating an account.
type RegisterRequest struct {
	Name     string `json:"name" example:"Maria Souza"`
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// LoginRequest is the body for logging in.
type LoginRequest struct {
	Email    string `json:"email" example:"maria@example.com"`
	Password string `json:"password" example:"correct horse battery staple"`
}

// RefreshRequest is the body for exchanging a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is an access token with the refresh token to renew it.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	Data  *TokenPair `json:"data"`                                     // The token pair
	Error *string    `json:"error" example:"the email or password is incorrect"` // The error, if any occurred
}

type UserResponse struct {
	Data  *models.User `json:"data"`                                                            // Data for the user
	Error *string      `json:"error" example:"the specified resource ID is not a valid number"` // The error, if any occurred
}

// RegisterAuthRoutes registers the authentication routes with the
// RouterGroup that is passed.
func RegisterAuthRoutes(r *gin.RouterGroup) {
	r.OPTIONS("/register", httputil.OptionsPost)
	r.POST("/register", Register)

	r.OPTIONS("/login", httputil.OptionsPost)
	r.POST("/login", Login)

	r.OPTIONS("/refresh", httputil.OptionsPost)
	r.POST("/refresh", Refresh)

	r.OPTIONS("/me", httputil.OptionsGet)
	r.GET("/me", Me)
}

func tokenPair(userID uint, email string) (TokenPair, error) {
	access, err := auth.GenerateAccessToken(userID, email)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := auth.GenerateRefreshToken(userID, email)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// @Summary		Register
// @Description	Creates an account and returns a token pair for it
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		201		{object}	AuthResponse
// @Failure		400		{object}	AuthResponse
// @Failure		500		{object}	AuthResponse
// @Param			user	body		RegisterRequest	true	"Account"
// @Router			/v1/auth/register [post]
func Register(c *gin.Context) {
	if !auth.Enabled() {
		s := errAuthDisabled.Error()
		c.JSON(http.StatusBadRequest, AuthResponse{
			Error: &s,
		})
		return
	}

	var request RegisterRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AuthResponse{
			Error: &s,
		})
		return
	}

	user := models.User{
		Name:   request.Name,
		Email:  request.Email,
		Active: true,
	}

	err = user.SetPassword(request.Password)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AuthResponse{
			Error: &s,
		})
		return
	}

	err = models.DB.Create(&user).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AuthResponse{
			Error: &s,
		})
		return
	}

	tokens, err := tokenPair(user.ID, user.Email)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusCreated, AuthResponse{Data: &tokens})
}

// @Summary		Login
// @Description	Returns a token pair for valid credentials
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200			{object}	AuthResponse
// @Failure		400			{object}	AuthResponse
// @Failure		401			{object}	AuthResponse
// @Param			credentials	body		LoginRequest	true	"Credentials"
// @Router			/v1/auth/login [post]
func Login(c *gin.Context) {
	if !auth.Enabled() {
		s := errAuthDisabled.Error()
		c.JSON(http.StatusBadRequest, AuthResponse{
			Error: &s,
		})
		return
	}

	var request LoginRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AuthResponse{
			Error: &s,
		})
		return
	}

	user, err := models.UserByEmail(models.DB, request.Email)
	if err != nil || !user.CheckPassword(request.Password) {
		// The same response for an unknown email and a wrong password
		s := models.ErrUserCredentials.Error()
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Error: &s,
		})
		return
	}

	tokens, err := tokenPair(user.ID, user.Email)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Data: &tokens})
}

// @Summary		Refresh tokens
// @Description	Exchanges a refresh token for a new token pair
// @Tags			Auth
// @Accept			json
// @Produce		json
// @Success		200		{object}	AuthResponse
// @Failure		400		{object}	AuthResponse
// @Failure		401		{object}	AuthResponse
// @Param			token	body		RefreshRequest	true	"Refresh token"
// @Router			/v1/auth/refresh [post]
func Refresh(c *gin.Context) {
	if !auth.Enabled() {
		s := errAuthDisabled.Error()
		c.JSON(http.StatusBadRequest, AuthResponse{
			Error: &s,
		})
		return
	}

	var request RefreshRequest
	err := httputil.BindData(c, &request)
	if err != nil {
		s := err.Error()
		c.JSON(status(err), AuthResponse{
			Error: &s,
		})
		return
	}

	claims, err := auth.ValidateRefreshToken(request.RefreshToken)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Error: &s,
		})
		return
	}

	// The account might have been deactivated since the token was issued
	user, err := models.UserByEmail(models.DB, claims.Email)
	if err != nil {
		s := errInvalidToken.Error()
		c.JSON(http.StatusUnauthorized, AuthResponse{
			Error: &s,
		})
		return
	}

	tokens, err := tokenPair(user.ID, user.Email)
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusInternalServerError, AuthResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, AuthResponse{Data: &tokens})
}

// @Summary		Current user
// @Description	Returns the account of the authenticated user
// @Tags			Auth
// @Produce		json
// @Success		200	{object}	UserResponse
// @Failure		400	{object}	UserResponse
// @Failure		401	{object}	UserResponse
// @Failure		404	{object}	UserResponse
// @Router			/v1/auth/me [get]
func Me(c *gin.Context) {
	if !auth.Enabled() {
		s := errAuthDisabled.Error()
		c.JSON(http.StatusBadRequest, UserResponse{
			Error: &s,
		})
		return
	}

	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		s := errMissingAuthHeader.Error()
		c.JSON(http.StatusUnauthorized, UserResponse{
			Error: &s,
		})
		return
	}

	claims, err := auth.ValidateAccessToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusUnauthorized, UserResponse{
			Error: &s,
		})
		return
	}

	var user models.User
	err = models.DB.First(&user, claims.UserID).Error
	if err != nil {
		s := err.Error()
		c.JSON(status(err), UserResponse{
			Error: &s,
		})
		return
	}

	c.JSON(http.StatusOK, UserResponse{Data: &user})
}
