package middleware

import (
	"net/http"

	"vaultguard/utils"

	"github.com/gin-gonic/gin"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// SessionAuthMiddleware validates the session cookie and sets "userID" in the
// gin context. Validation is stateless: a signature and expiry check, no
// store lookup, and every rejection looks the same to the client.
func SessionAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
			c.Abort()
			return
		}

		accountID, err := utils.ValidateSessionToken(tokenString)
		if err != nil {
			utils.JSONError(c, http.StatusUnauthorized, "Unauthorized", "")
			c.Abort()
			return
		}

		c.Set("userID", accountID)
		c.Next()
	}
}
