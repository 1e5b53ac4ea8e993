package handlers

import (
	"net/http"
	"strings"

	"clientdesk/internal/errs"
	"clientdesk/internal/models"
	"clientdesk/internal/msgs"
	"clientdesk/internal/utils"

	"github.com/gin-gonic/gin"
)

// MustAuthenticateMiddleware verifies the token issued by the external
// identity subsystem and stores the resolved principal in the context.
func MustAuthenticateMiddleware() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		jwtToken := ctx.GetHeader("Authorization")
		if strings.Contains(jwtToken, "Bearer") {
			jwtToken = strings.Replace(jwtToken, "Bearer ", "", 1)
		}

		if jwtToken == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgOperationFailed,
				Errors:  models.ErrorList(errs.ErrUnauthorized),
			})
			return
		}

		claims, err := utils.VerifyToken(jwtToken, utils.GetJwtKey())
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, models.Response{
				Success: false,
				Message: msgs.MsgYouMustLoginFirst,
				Errors:  models.ErrorList(errs.ErrUnauthorized),
			})
			return
		}

		ctx.Set("principal", claims.ToPrincipal())
		ctx.Next()
	}
}
