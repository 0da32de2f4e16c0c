package echoapi

import (
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/school"
)

const (
	roleAdmin  = "admin"
	roleParent = "parent"
)

// appJWTConfig is the default JWT auth middleware config.
var appJWTConfig = middleware.JWTConfig{
	SigningKey:    []byte(core.Conf.SecretKey),
	SigningMethod: middleware.AlgorithmHS256,
	ContextKey:    "authToken",
	Claims:        new(Claims),
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt int64  `json:"oriat,omitempty"`
	Role         string `json:"role,omitempty"`       // admin | parent
	StudentID    string `json:"student_id,omitempty"` // set for the parent view
}

func (c Claims) IsAdmin() bool  { return c.Role == roleAdmin }
func (c Claims) IsParent() bool { return c.Role == roleParent }

func newClaims(role, subject, studentID string, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	oriat := nownix
	if len(origIat) > 0 {
		oriat = origIat[0]
	}

	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   subject,
			Audience:  "Shule",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt: oriat,
		Role:         role,
		StudentID:    studentID,
	}
}

func GetAdminClaims(origIat ...int64) *Claims {
	return newClaims(roleAdmin, roleAdmin, "", origIat...)
}

func GetParentClaims(studentID string, origIat ...int64) *Claims {
	return newClaims(roleParent, studentID, studentID, origIat...)
}

// checkAdminPIN verifies the admin PIN. A bcrypt hash stored in settings
// overrides the configured plain PIN.
func checkAdminPIN(pin string, svc *school.Service) (bool, error) {
	settings, err := svc.Repo().Settings()
	if err != nil {
		return false, errors.Wrap(err, "loading settings")
	}
	if settings.AdminPINHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(settings.AdminPINHash), []byte(pin))
		return err == nil, nil
	}
	return subtle.ConstantTimeCompare([]byte(core.Conf.AdminPIN), []byte(pin)) == 1, nil
}

func authenticate(data LoginRequest, svc *school.Service) (*Claims, error) {
	if data.PIN != "" {
		ok, err := checkAdminPIN(data.PIN, svc)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errAuthenticationFailed
		}
		return GetAdminClaims(), nil
	}

	student, err := svc.FindStudentByAccessCode(data.AccessCode)
	if err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding student by access code")
	}
	return GetParentClaims(student.ID), nil
}

// GenerateToken generates a signed JWT token string representing the Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func refreshToken(ctx echo.Context, svc *school.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	var newClms *Claims
	if claims.IsParent() {
		// the parent view dies with the student record
		if _, err := findStudentByID(svc, claims.StudentID); err != nil {
			return "", errRefreshExpired
		}
		newClms = GetParentClaims(claims.StudentID, claims.OrigIssuedAt)
	} else {
		newClms = GetAdminClaims(claims.OrigIssuedAt)
	}

	token, err := GenerateToken(newClms)
	return token, errors.Wrap(err, "generating token")
}

func findStudentByID(svc *school.Service, id string) (school.Student, error) {
	students, err := svc.Repo().Students()
	if err != nil {
		return school.Student{}, err
	}
	for _, s := range students {
		if s.ID == id {
			return s, nil
		}
	}
	return school.Student{}, school.ErrNotFound
}

func adminMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

func parentMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsParent() {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// Auth API

type authApi struct {
	svc *school.Service
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc *school.Service) {
	api := authApi{svc: svc}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)
	ag.POST("/token-refresh", api.refreshToken, jwt)
}

func (api *authApi) login(ctx echo.Context) error {
	var data LoginRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to LoginRequest")
	}
	if err := data.Validate(core.Validate); err != nil {
		return err
	}

	claims, err := authenticate(data, api.svc)
	if err != nil {
		return err
	}
	token, err := GenerateToken(claims)
	if err != nil {
		return errors.Wrap(err, "generating token")
	}

	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: claims.Role, StudentID: claims.StudentID})
}

func (api *authApi) refreshToken(ctx echo.Context) error {
	token, err := refreshToken(ctx, api.svc)
	if err != nil {
		return errors.Wrap(err, "refreshing token")
	}
	claims, _ := getContextClaims(ctx)
	return ctx.JSON(http.StatusOK, LoginResponse{Token: token, Role: claims.Role, StudentID: claims.StudentID})
}

type (
	// LoginRequest carries either the admin PIN or a parent access code.
	LoginRequest struct {
		PIN        string `json:"pin"`
		AccessCode string `json:"accessCode"`
	}

	LoginResponse struct {
		Token     string `json:"token"`
		Role      string `json:"role"`
		StudentID string `json:"studentId,omitempty"`
	}

	SuccessResponse struct {
		Success string `json:"success"`
	}
)

func (lr *LoginRequest) Validate(validate *validator.Validate) error {
	lr.PIN = core.CleanString(lr.PIN)
	lr.AccessCode = core.CleanString(lr.AccessCode)
	if lr.PIN == "" && lr.AccessCode == "" {
		return core.NewValidationError(errors.New("a pin or an access code is required"))
	}
	return validate.Struct(lr)
}
