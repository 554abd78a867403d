package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/talkincode/voltdesk/internal/domain"
	"github.com/talkincode/voltdesk/internal/webserver"
	"github.com/talkincode/voltdesk/pkg/common"
)

type loginPayload struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1,max=200"`
}

func registerAuthRoutes() {
	webserver.PubPOST("/login", login)
	webserver.ApiGET("/profile", operatorProfile)
	webserver.ApiPOST("/refresh-token", refreshToken)
}

// issueToken signs a 24h HS256 token for the given operator.
func issueToken(subject, secret string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        common.UUID(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(24 * time.Hour)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func login(c echo.Context) error {
	var payload loginPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse login parameters", nil)
	}
	if err := c.Validate(&payload); err != nil {
		return handleValidationError(c, err)
	}

	username := strings.TrimSpace(payload.Username)

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", username).First(&opr).Error
	if err == gorm.ErrRecordNotFound {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operator", err.Error())
	}

	hashed := common.Sha256HashWithSalt(payload.Password, common.GetSecretSalt())
	if opr.Password != hashed {
		return fail(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
	}
	if !strings.EqualFold(opr.Status, common.ENABLED) {
		return fail(c, http.StatusForbidden, "OPERATOR_DISABLED", "Operator account is disabled", nil)
	}

	signed, err := issueToken(opr.Username, GetApp(c).Config().Web.JwtSecret)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}

	now := time.Now()
	GetDB(c).Model(&domain.SysOpr{}).Where("id = ?", opr.ID).Update("last_login", now)
	GetDB(c).Create(&domain.SysOprLog{
		ID:        common.UUIDint64(),
		OprName:   opr.Username,
		OprIp:     c.RealIP(),
		OptAction: "login",
		OptDesc:   "operator login",
		OptTime:   now,
	})

	return ok(c, map[string]interface{}{
		"token":    signed,
		"username": opr.Username,
		"level":    opr.Level,
	})
}

// refreshToken issues a fresh 24h token for the current operator.
func refreshToken(c echo.Context) error {
	token, valid := c.Get("user").(*jwt.Token)
	if !valid {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
	}
	claims, valid := token.Claims.(*jwt.RegisteredClaims)
	if !valid {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
	}

	signed, err := issueToken(claims.Subject, GetApp(c).Config().Web.JwtSecret)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "TOKEN_ERROR", "Failed to issue token", err.Error())
	}
	return ok(c, map[string]interface{}{"token": signed})
}

func operatorProfile(c echo.Context) error {
	token, valid := c.Get("user").(*jwt.Token)
	if !valid {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing token", nil)
	}
	claims, valid := token.Claims.(*jwt.RegisteredClaims)
	if !valid {
		return fail(c, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token claims", nil)
	}

	var opr domain.SysOpr
	err := GetDB(c).Where("username = ?", claims.Subject).First(&opr).Error
	if err != nil {
		return fail(c, http.StatusNotFound, "OPERATOR_NOT_FOUND", "Operator not found", nil)
	}
	opr.Password = ""
	return ok(c, opr)
}
