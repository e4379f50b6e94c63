package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/placeshare/internal/config"
	"github.com/geocoder89/placeshare/internal/domain/user"
	"github.com/geocoder89/placeshare/internal/security"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UsersStore interface {
	Create(ctx context.Context, u user.User) error
	GetByEmail(ctx context.Context, email string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type TokenIssuer interface {
	GenerateAccessToken(userID, email string) (string, error)
}

type UsersHandler struct {
	users     UsersStore
	tokens    TokenIssuer
	uploadDir string
}

func NewUsersHandler(users UsersStore, tokens TokenIssuer, uploadDir string) *UsersHandler {
	return &UsersHandler{
		users:     users,
		tokens:    tokens,
		uploadDir: uploadDir,
	}
}

func (h *UsersHandler) GetUsers(ctx *gin.Context) {
	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	users, err := h.users.List(cctx)

	if err != nil {
		FailInternal(ctx, "Unable to get list of users, please try again.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *UsersHandler) Signup(ctx *gin.Context) {
	var req user.SignupRequest

	if !BindForm(ctx, &req, "Invalid registration, please check input.") {
		return
	}

	hash, err := security.HashPassword(req.Password)

	if err != nil {
		FailInternal(ctx, "Sign up failed, please try again.")
		return
	}

	imagePath, err := h.saveImage(ctx)

	if err != nil {
		FailInternal(ctx, "Sign up failed, please try again.")
		return
	}

	created := user.User{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Image:        imagePath,
		Places:       []string{},
	}

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	err = h.users.Create(cctx, created)

	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			FailInvalid(ctx, "User exists already, please login instead.")
			return
		}

		FailInternal(ctx, "Sign up failed, please try again.")
		return
	}

	token, err := h.tokens.GenerateAccessToken(created.ID, created.Email)

	if err != nil {
		FailInternal(ctx, "Sign up failed, please try again.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"user":  created,
		"token": token,
	})
}

func (h *UsersHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req, "Invalid login, please check input.") {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	found, err := h.users.GetByEmail(cctx, req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			FailUnauthorized(ctx, "Invalid credentials, could not log in.")
			return
		}

		FailInternal(ctx, "Login failed, please try again later.")
		return
	}

	err = security.CheckPassword(found.PasswordHash, req.Password)

	if err != nil {
		FailUnauthorized(ctx, "Invalid credentials, could not log in.")
		return
	}

	token, err := h.tokens.GenerateAccessToken(found.ID, found.Email)

	if err != nil {
		FailInternal(ctx, "Login failed, please try again later.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Login successful!",
		"user":    found,
		"token":   token,
	})
}

func (h *UsersHandler) saveImage(ctx *gin.Context) (string, error) {
	file, err := ctx.FormFile("image")

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}

		return "", err
	}

	return SaveUpload(ctx, file, h.uploadDir)
}
