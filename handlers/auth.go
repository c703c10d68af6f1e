package handlers

import (
	"errors"
	"net/http"

	"vaultguard/config"
	"vaultguard/middleware"
	"vaultguard/services/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var authService auth.AuthService

// SetAuthService injects the auth service implementation.
func SetAuthService(s auth.AuthService) {
	authService = s
}

// setSessionCookie attaches the session token as an HTTP-only cookie scoped
// to the root path. Secure is enabled in production, where TLS terminates in
// front of the service.
func setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, token, config.AppConfig.SessionTTLSeconds, "/", "", config.IsProduction(), true)
}

// clearSessionCookie expires the session cookie immediately.
func clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookieName, "", -1, "/", "", config.IsProduction(), true)
}

// SignupHandler creates a new account.
func SignupHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	if _, err := authService.SignUp(req.Email, req.Password); err != nil {
		var validation auth.ValidationError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"message": validation.Msg})
		case errors.Is(err, auth.ErrEmailTaken):
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		default:
			getLogger(c).Error("SignupHandler: registration failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully."})
}

// LoginHandler runs the primary-credential step. When a second factor is
// required the response announces the emailed OTP; otherwise the session
// cookie is set directly.
func LoginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	result, err := authService.Login(req.Email, req.Password)
	if err != nil {
		var validation auth.ValidationError
		var delivery auth.DeliveryError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"message": validation.Msg})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials."})
		case errors.As(err, &delivery):
			// Infrastructure failure, not a user mistake; the message stays generic.
			getLogger(c).Error("LoginHandler: OTP delivery failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not send verification code. Please try again."})
		default:
			getLogger(c).Error("LoginHandler: login failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		}
		return
	}

	if result.TwoFactorRequired {
		c.JSON(http.StatusOK, gin.H{
			"message":           "A verification code has been sent to your email.",
			"twoFactorRequired": true,
		})
		return
	}

	setSessionCookie(c, result.Token)
	c.JSON(http.StatusOK, gin.H{"message": "Logged in successfully."})
}

// VerifyOTPHandler validates the emailed one-time password and completes the
// login by setting the session cookie.
func VerifyOTPHandler(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Email and OTP are required."})
		return
	}

	token, err := authService.VerifyOTP(req.Email, req.OTP)
	if err != nil {
		var validation auth.ValidationError
		switch {
		case errors.As(err, &validation):
			c.JSON(http.StatusBadRequest, gin.H{"message": validation.Msg})
		case errors.Is(err, auth.ErrOTPInvalidRequest),
			errors.Is(err, auth.ErrOTPExpired),
			errors.Is(err, auth.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		default:
			getLogger(c).Error("VerifyOTPHandler: verification failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		}
		return
	}

	setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful"})
}

// LogoutHandler expires the session cookie. Session tokens are stateless, so
// there is nothing server-side to revoke; clients must also clear their vault
// key on logout.
func LogoutHandler(c *gin.Context) {
	clearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// SetupTwoFactorHandler generates a TOTP enrollment secret for the
// authenticated account.
func SetupTwoFactorHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	setup, err := authService.SetupTwoFactor(userID)
	if err != nil {
		getLogger(c).Error("SetupTwoFactorHandler: setup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		return
	}
	c.JSON(http.StatusOK, setup)
}

// ConfirmTwoFactorHandler checks a TOTP code and completes enrollment.
func ConfirmTwoFactorHandler(c *gin.Context) {
	userID := c.GetString("userID")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
		return
	}

	var req struct {
		Token string `json:"token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Token is required."})
		return
	}

	if err := authService.ConfirmTwoFactor(userID, req.Token); err != nil {
		switch {
		case errors.Is(err, auth.ErrTwoFactorNotSetUp):
			c.JSON(http.StatusBadRequest, gin.H{"message": "2FA not set up"})
		case errors.Is(err, auth.ErrOTPInvalid):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid 2FA token"})
		default:
			getLogger(c).Error("ConfirmTwoFactorHandler: confirmation failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error."})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "2FA enabled successfully"})
}
