package middlewares

import (
	"net/http"
	"regexp"
	"strings"

	"newsdeck/model"
	"newsdeck/server/auth"
	"newsdeck/store"
	"newsdeck/utils"
	"newsdeck/utils/log"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// UserKey is the gin context key under which Auth stores the resolved user.
const UserKey = "user"

// bearerPattern captures the token after the Bearer scheme. Matching the
// token separately lets us distinguish a missing scheme from a scheme with
// an empty token.
var bearerPattern = regexp.MustCompile(`^(?i:Bearer)\s+(.+)$`)

// Auth validates the Authorization header, verifies the bearer token and
// resolves the user it identifies. The user is stored on the gin context
// under UserKey; handlers fetch it with CurrentUser.
func Auth(userStore *store.Store, tokens *auth.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		match := bearerPattern.FindStringSubmatch(c.GetHeader("Authorization"))
		if match == nil {
			abortUnauthorized(c, "Authorization header missing or malformed")
			return
		}
		token := strings.TrimSpace(match[1])
		if token == "" {
			abortUnauthorized(c, "Token missing")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			abortUnauthorized(c, "Invalid or expired token")
			return
		}

		user := userStore.FindUserByEmail(claims.Email)
		if user == nil {
			// The token validated but the account is gone. Log masked so no
			// PII lands in the logs.
			log.Log.Warnf("token validated but user not found - email: %s, ip: %s",
				utils.MaskEmail(claims.Email), c.ClientIP())
			abortUnauthorized(c, "User not found for token")
			return
		}

		c.Set(UserKey, user)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
}

// CurrentUser returns the user resolved by Auth. Only valid on routes behind
// the middleware.
func CurrentUser(c *gin.Context) *model.User {
	value, ok := c.Get(UserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*model.User)
	return user
}
