package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/qvideo/rental-api/internal/core/ports"
)

// VideoHandler handles HTTP requests for catalog operations.
type VideoHandler struct {
	service ports.VideoService
}

func NewVideoHandler(service ports.VideoService) *VideoHandler {
	return &VideoHandler{service: service}
}

// List returns every video.
//
// @Summary      List videos
// @Tags         videos
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.Video
// @Failure      401  {object}  errorResponse
// @Router       /api/videos [get]
func (h *VideoHandler) List(c echo.Context) error {
	videos, err := h.service.ListAll(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, videos)
}

// ListAvailable returns the videos that can currently be rented.
//
// @Summary      List available videos
// @Tags         videos
// @Produce      json
// @Security     BasicAuth
// @Success      200  {array}   domain.Video
// @Failure      401  {object}  errorResponse
// @Router       /api/videos/available [get]
func (h *VideoHandler) ListAvailable(c echo.Context) error {
	videos, err := h.service.ListAvailable(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, videos)
}

// Get returns a single video.
//
// @Summary      Get a video
// @Tags         videos
// @Produce      json
// @Security     BasicAuth
// @Param        id   path      int  true  "Video ID"
// @Success      200  {object}  domain.Video
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/videos/{id} [get]
func (h *VideoHandler) Get(c echo.Context) error {
	id, err := videoID(c)
	if err != nil {
		return err
	}
	v, err := h.service.GetByID(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Create adds a video to the catalog.
//
// @Summary      Create a video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        body  body      videoRequest  true  "Video"
// @Success      201   {object}  domain.Video
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /api/videos [post]
func (h *VideoHandler) Create(c echo.Context) error {
	in, err := bindVideo(c)
	if err != nil {
		return err
	}
	v, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, v)
}

// Update replaces the fields of an existing video.
//
// @Summary      Update a video
// @Tags         videos
// @Accept       json
// @Produce      json
// @Security     BasicAuth
// @Param        id    path      int           true  "Video ID"
// @Param        body  body      videoRequest  true  "Video"
// @Success      200   {object}  domain.Video
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/videos/{id} [put]
func (h *VideoHandler) Update(c echo.Context) error {
	id, err := videoID(c)
	if err != nil {
		return err
	}
	in, err := bindVideo(c)
	if err != nil {
		return err
	}
	v, err := h.service.Update(c.Request().Context(), id, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, v)
}

// Delete removes a video permanently.
//
// @Summary      Delete a video
// @Tags         videos
// @Security     BasicAuth
// @Param        id   path  int  true  "Video ID"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/videos/{id} [delete]
func (h *VideoHandler) Delete(c echo.Context) error {
	id, err := videoID(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func videoID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid video id")
	}
	return id, nil
}

func bindVideo(c echo.Context) (ports.VideoInput, error) {
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return ports.VideoInput{}, echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return ports.VideoInput{}, err
	}
	return ports.VideoInput{
		Title:     req.Title,
		Director:  req.Director,
		Genre:     req.Genre,
		Available: req.available(),
	}, nil
}
