package api

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	"net/http"

	// Registered decoders for multipart uploads.
	_ "image/gif"
	_ "image/png"

	"github.com/go-chi/chi/v5"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/ignite/datacloud-engage/internal/domain"
	"github.com/ignite/datacloud-engage/internal/pkg/logger"
)

const (
	maxUploadBytes = 5 << 20
	thumbnailMax   = 256
	thumbQuality   = 85
)

// UploadProfilePicture accepts a multipart image upload, downscales it
// to a bounded thumbnail and stores it on the engagement record as a
// base64 data URL, keeping the record self-contained.
//
//	POST /api/individuals/{individualId}/profile-picture
func (h *Handlers) UploadProfilePicture(w http.ResponseWriter, r *http.Request) {
	individualID := chi.URLParam(r, "individualId")

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondError(w, http.StatusBadRequest, "parse upload: "+err.Error())
		return
	}
	file, _, err := r.FormFile("picture")
	if err != nil {
		respondError(w, http.StatusBadRequest, `multipart field "picture" is required`)
		return
	}
	defer file.Close()

	img, format, err := image.Decode(file)
	if err != nil {
		respondError(w, http.StatusBadRequest, "decode image: "+err.Error())
		return
	}

	dataURL, err := thumbnailDataURL(img)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var found bool
	err = h.engagement.Update(func(records []domain.EngagementRecord) error {
		for i := range records {
			if records[i].ID == individualID {
				records[i].ProfilePictureURL = dataURL
				found = true
				return nil
			}
		}
		return nil
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !found {
		respondError(w, http.StatusNotFound, fmt.Sprintf("individual %s not found", individualID))
		return
	}

	logger.Info("profile picture stored", "individual_id", individualID, "format", format)
	respondJSON(w, http.StatusOK, map[string]any{
		"individual_id":       individualID,
		"profile_picture_url": dataURL,
	})
}

// thumbnailDataURL downscales to fit thumbnailMax on the longer side
// and re-encodes as a JPEG data URL. Images already within bounds are
// re-encoded without scaling.
func thumbnailDataURL(img image.Image) (string, error) {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w > thumbnailMax || h > thumbnailMax {
		scale := float64(thumbnailMax) / float64(w)
		if h > w {
			scale = float64(thumbnailMax) / float64(h)
		}
		dst := image.NewRGBA(image.Rect(0, 0, int(float64(w)*scale), int(float64(h)*scale)))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: thumbQuality}); err != nil {
		return "", fmt.Errorf("encode thumbnail: %w", err)
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
