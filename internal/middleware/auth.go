package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yockii/ppt_tools/internal/constant"
	"github.com/yockii/ppt_tools/internal/service"
	"github.com/yockii/ppt_tools/pkg/logger"
)

const localUserID = "userId"

// Claims token 中的声明，Subject 为用户ID
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// NewAuthMiddleware HS256 bearer token 认证，token 由外部身份服务签发
func NewAuthMiddleware(secret []byte, issuer string) fiber.Handler {
	if len(secret) == 0 {
		logger.Warn("未配置 auth.jwt_secret，保存相关接口将全部拒绝")
	}
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" || len(secret) == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(service.Error(constant.ErrUnauthorized))
		}

		claims, err := ParseToken(secret, issuer, token)
		if err != nil {
			logger.Warn("token校验失败", logger.F("path", c.Path()), logger.F("error", err))
			return c.Status(constant.GetErrorCode(err)).JSON(service.Error(err))
		}

		// 将用户信息存入上下文
		c.Locals(localUserID, claims.Subject)
		return c.Next()
	}
}

// NewOptionalAuthMiddleware 公开接口用，带有效 token 时记录用户ID，
// 没有或无效时按匿名请求放行，限流退回按IP计数
func NewOptionalAuthMiddleware(secret []byte, issuer string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		if token == "" || len(secret) == 0 {
			return c.Next()
		}
		claims, err := ParseToken(secret, issuer, token)
		if err != nil {
			logger.Debug("忽略无效token", logger.F("path", c.Path()), logger.F("error", err))
			return c.Next()
		}
		c.Locals(localUserID, claims.Subject)
		return c.Next()
	}
}

// ParseToken 校验签名和过期时间
func ParseToken(secret []byte, issuer, tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非预期的token解析方式: %v", token.Header["alg"])
		}
		return secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, constant.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.Subject == "" {
		return nil, constant.ErrInvalidToken
	}
	return claims, nil
}

// SignToken 签发token，供命令行和测试使用
func SignToken(secret []byte, issuer, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

// UserID 认证后的用户ID，未认证时为空
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}
