package handlers

import (
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/geocoder89/placeshare/internal/config"
	"github.com/geocoder89/placeshare/internal/domain/place"
	"github.com/geocoder89/placeshare/internal/domain/user"
	"github.com/geocoder89/placeshare/internal/geo"
	"github.com/geocoder89/placeshare/internal/http/middlewares"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PlacesStore interface {
	BeginTx(ctx context.Context) (pgx.Tx, error)
	GetByID(ctx context.Context, id string) (place.Place, error)
	ListByIDs(ctx context.Context, ids []string) ([]place.Place, error)
	CreateTx(ctx context.Context, tx pgx.Tx, p place.Place) error
	Update(ctx context.Context, id string, req place.UpdatePlaceRequest) (place.Place, error)
	DeleteTx(ctx context.Context, tx pgx.Tx, id string) error
}

type PlaceOwnerStore interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	GetForUpdateTx(ctx context.Context, tx pgx.Tx, id string) (user.User, error)
	SetPlacesTx(ctx context.Context, tx pgx.Tx, id string, places []string) error
}

type Geocoder interface {
	Resolve(ctx context.Context, address string) (place.Location, error)
}

type PlacesHandler struct {
	places    PlacesStore
	users     PlaceOwnerStore
	geocoder  Geocoder
	uploadDir string
}

func NewPlacesHandler(places PlacesStore, users PlaceOwnerStore, geocoder Geocoder, uploadDir string) *PlacesHandler {
	return &PlacesHandler{
		places:    places,
		users:     users,
		geocoder:  geocoder,
		uploadDir: uploadDir,
	}
}

func (h *PlacesHandler) GetPlaceByID(ctx *gin.Context) {
	id := ctx.Param("pid")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	p, err := h.places.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			FailNotFound(ctx, "Could not find a place for the provided id.")
			return
		}

		FailInternal(ctx, "Something went wrong, could not find place.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"place": p})
}

func (h *PlacesHandler) GetPlacesByUserID(ctx *gin.Context) {
	uid := ctx.Param("uid")

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	owner, err := h.users.GetByID(cctx, uid)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			FailNotFound(ctx, "Could not find places for the provided user id.")
			return
		}

		FailInternal(ctx, "Something went wrong, could not find places.")
		return
	}

	// a user without places reads as not found, matching the product's
	// established behavior
	if len(owner.Places) == 0 {
		FailNotFound(ctx, "Could not find places for the provided user id.")
		return
	}

	places, err := h.places.ListByIDs(cctx, owner.Places)

	if err != nil {
		FailInternal(ctx, "Something went wrong, could not find places.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"places": places})
}

type createPlaceForm struct {
	place.CreatePlaceRequest
	Creator string `form:"creator"`
}

func (h *PlacesHandler) CreatePlace(ctx *gin.Context) {
	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		FailUnauthorized(ctx, "Missing identity.")
		return
	}

	var form createPlaceForm

	if !BindForm(ctx, &form, "Invalid input, please check input data.") {
		return
	}

	// the body may carry a creator field, but the verified caller is the
	// source of truth
	if form.Creator != "" && form.Creator != callerID {
		FailUnauthorized(ctx, "You are not allowed to create places for another user.")
		return
	}

	cctx, cancel := config.WithTimeout(10 * time.Second)
	defer cancel()

	loc, err := h.geocoder.Resolve(cctx, form.Address)

	if err != nil {
		if errors.Is(err, geo.ErrZeroResults) {
			FailNotFound(ctx, "Could not find location for the specified address.")
			return
		}

		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	owner, err := h.users.GetByID(cctx, callerID)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			FailNotFound(ctx, "Could not find user for provided id.")
			return
		}

		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	imagePath, err := h.saveImage(ctx)

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	created := place.NewFromCreateRequest(form.CreatePlaceRequest, loc, imagePath, owner.ID)

	// insert the place and append its id to the owner's list in one
	// transaction scope; either both land or neither does
	tx, err := h.places.BeginTx(cctx)

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	defer func() { _ = tx.Rollback(cctx) }()

	err = h.places.CreateTx(cctx, tx, created)

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	lockedOwner, err := h.users.GetForUpdateTx(cctx, tx, owner.ID)

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	err = h.users.SetPlacesTx(cctx, tx, lockedOwner.ID, append(lockedOwner.Places, created.ID))

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	err = tx.Commit(cctx)

	if err != nil {
		FailInternal(ctx, "Creating place failed, please try again.")
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"place": created})
}

func (h *PlacesHandler) UpdatePlaceByID(ctx *gin.Context) {
	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		FailUnauthorized(ctx, "Missing identity.")
		return
	}

	id := ctx.Param("pid")

	var req place.UpdatePlaceRequest

	if !BindJSON(ctx, &req, "Invalid update, please check input.") {
		return
	}

	cctx, cancel := config.WithTimeout(2 * time.Second)
	defer cancel()

	existing, err := h.places.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			FailNotFound(ctx, "Could not find a place for the provided id.")
			return
		}

		FailInternal(ctx, "Something went wrong, could not update place.")
		return
	}

	if existing.Creator != callerID {
		FailUnauthorized(ctx, "You are not allowed to edit this place.")
		return
	}

	updated, err := h.places.Update(cctx, id, req)

	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			FailNotFound(ctx, "Could not find a place for the provided id.")
			return
		}

		FailInternal(ctx, "Something went wrong, could not update place.")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"place": updated})
}

func (h *PlacesHandler) DeletePlaceByID(ctx *gin.Context) {
	callerID, ok := middlewares.UserIDFromContext(ctx)

	if !ok || callerID == "" {
		FailUnauthorized(ctx, "Missing identity.")
		return
	}

	id := ctx.Param("pid")

	cctx, cancel := config.WithTimeout(3 * time.Second)
	defer cancel()

	existing, err := h.places.GetByID(cctx, id)

	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			FailNotFound(ctx, "Could not find place for the provided id.")
			return
		}

		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	if existing.Creator != callerID {
		FailUnauthorized(ctx, "You are not allowed to delete this place.")
		return
	}

	tx, err := h.places.BeginTx(cctx)

	if err != nil {
		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	defer func() { _ = tx.Rollback(cctx) }()

	err = h.places.DeleteTx(cctx, tx, id)

	if err != nil {
		if errors.Is(err, place.ErrNotFound) {
			FailNotFound(ctx, "Could not find place for the provided id.")
			return
		}

		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	owner, err := h.users.GetForUpdateTx(cctx, tx, existing.Creator)

	if err != nil {
		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	err = h.users.SetPlacesTx(cctx, tx, owner.ID, removeID(owner.Places, id))

	if err != nil {
		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	err = tx.Commit(cctx)

	if err != nil {
		FailInternal(ctx, "Cannot delete, something went wrong.")
		return
	}

	// best effort, never blocks or fails the response
	removeImageAsync(ctx.Request.Context(), existing.Image)

	ctx.JSON(http.StatusOK, gin.H{"message": "Deleted place."})
}

func (h *PlacesHandler) saveImage(ctx *gin.Context) (string, error) {
	file, err := ctx.FormFile("image")

	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}

		return "", err
	}

	return SaveUpload(ctx, file, h.uploadDir)
}

// SaveUpload stores an uploaded file under a fresh name and returns the
// path that gets persisted on the entity.
func SaveUpload(ctx *gin.Context, file *multipart.FileHeader, uploadDir string) (string, error) {
	name := uuid.NewString() + filepath.Ext(file.Filename)
	dst := filepath.Join(uploadDir, name)

	if err := ctx.SaveUploadedFile(file, dst); err != nil {
		return "", err
	}

	return dst, nil
}

func removeImageAsync(ctx context.Context, path string) {
	if path == "" {
		return
	}

	go func() {
		if err := os.Remove(path); err != nil {
			slog.Default().WarnContext(ctx, "image_cleanup_failed", "path", path, "err", err)
		}
	}()
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))

	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}

	return out
}
