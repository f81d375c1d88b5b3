package handlers

import (
	"context"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sriganeshautocars/ganesh-cars-backend/internal/config"
)

// maxFilesPerUpload caps a single multi-upload call.
const maxFilesPerUpload = 10

type FileUploader interface {
	UploadOne(ctx context.Context, fh *multipart.FileHeader) (string, error)
	UploadMany(ctx context.Context, files []*multipart.FileHeader) ([]string, error)
}

type UploadHandler struct {
	uploader FileUploader
}

func NewUploadHandler(uploader FileUploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

func (h *UploadHandler) UploadSingle(ctx *gin.Context) {
	fh, err := ctx.FormFile("image")

	if err != nil {
		RespondBadRequest(ctx, "No file uploaded", nil)
		return
	}

	cctx, cancel := config.WithTimeout(30 * time.Second)
	defer cancel()

	imageURL, err := h.uploader.UploadOne(cctx, fh)

	if err != nil {
		RespondInternal(ctx, "Failed to upload image")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

func (h *UploadHandler) UploadMultiple(ctx *gin.Context) {
	form, err := ctx.MultipartForm()

	if err != nil {
		RespondBadRequest(ctx, "No files uploaded", nil)
		return
	}

	files := form.File["images"]

	if len(files) == 0 {
		RespondBadRequest(ctx, "No files uploaded", nil)
		return
	}

	if len(files) > maxFilesPerUpload {
		RespondBadRequest(ctx, "Too many files (max 10)", nil)
		return
	}

	cctx, cancel := config.WithTimeout(60 * time.Second)
	defer cancel()

	imageURLs, err := h.uploader.UploadMany(cctx, files)

	if err != nil {
		RespondInternal(ctx, "Failed to upload images")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"imageUrls": imageURLs})
}
