package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/affine-warp/internal/geometry"
	"github.com/rm-hull/affine-warp/internal/png"
	"github.com/rm-hull/affine-warp/internal/raster"
	"github.com/rm-hull/affine-warp/internal/transform"
	"github.com/rm-hull/affine-warp/internal/warp"
)

type WarpHandler struct {
	workers int
}

func NewWarpHandler(workers int) *WarpHandler {
	return &WarpHandler{workers: workers}
}

func (h *WarpHandler) Register(r gin.IRouter) {
	r.POST("/warp", h.Warp)
	r.POST("/transform", h.Transform)
}

type TransformRequest struct {
	Points transform.Correspondences `json:"points"`
}

type TransformResponse struct {
	Forward   geometry.Mat3 `json:"forward"`
	Inverse   geometry.Mat3 `json:"inverse"`
	Residuals []float64     `json:"residuals"`
}

// Warp expects a multipart form with an "image" file, "points" as a JSON array
// of {src, dst} pairs and optional "method", "width" and "height" fields.
func (h *WarpHandler) Warp(c *gin.Context) {
	var pairs transform.Correspondences
	if raw := c.PostForm("points"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &pairs); err != nil {
			abort(c, http.StatusBadRequest, fmt.Errorf("invalid points: %w", err))
			return
		}
	}

	method, err := warp.ParseMethod(c.PostForm("method"))
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	width, err := formInt(c, "width")
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	height, err := formInt(c, "height")
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	if err := warp.CheckSize(height, width); err != nil {
		abort(c, statusFor(err), err)
		return
	}

	// Estimate up front so a bad correspondence set costs no image decoding.
	affine, err := transform.Estimate(pairs)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	fh, err := c.FormFile("image")
	if err != nil {
		abort(c, http.StatusBadRequest, fmt.Errorf("missing image: %w", err))
		return
	}
	f, err := fh.Open()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}
	img, err := png.NewPngFromReader(f)
	_ = f.Close()
	if err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	opts := warp.Options{Method: method, Width: width, Height: height, Workers: h.workers}
	out, err := warp.Apply(affine, raster.FromImage(img.Img), opts)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}
	result, err := out.ToImage()
	if err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	var buf bytes.Buffer
	if err := png.NewPng(result, "png").Write(&buf); err != nil {
		abort(c, http.StatusInternalServerError, err)
		return
	}

	c.Header("X-Warp-Method", method.String())
	c.Header("X-Warp-Forward", formatMatrix(affine.Forward()))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

// Transform estimates the affine matrix without touching any image.
func (h *WarpHandler) Transform(c *gin.Context) {
	var req TransformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, err)
		return
	}

	affine, err := transform.Estimate(req.Points)
	if err != nil {
		abort(c, statusFor(err), err)
		return
	}

	c.JSON(http.StatusOK, TransformResponse{
		Forward:   affine.Forward(),
		Inverse:   affine.Inverse(),
		Residuals: transform.Residuals(affine, req.Points),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, transform.ErrInsufficientCorrespondence),
		errors.Is(err, transform.ErrSingularTransform):
		return http.StatusUnprocessableEntity
	case errors.Is(err, warp.ErrEmptySource),
		errors.Is(err, warp.ErrTooLarge):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func abort(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		log.Printf("Request failed: %v", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func formInt(c *gin.Context, key string) (int, error) {
	s := strings.TrimSpace(c.PostForm(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, s)
	}
	return v, nil
}

func formatMatrix(m geometry.Mat3) string {
	parts := make([]string, len(m))
	for i, v := range m {
		if v == 0 {
			v = 0 // no "-0"
		}
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}
