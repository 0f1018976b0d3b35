package content

import (
	"context"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	apperrors "github.com/lk2023060901/yoga-studio-backend/internal/pkg/errors"
	"github.com/lk2023060901/yoga-studio-backend/internal/pkg/response"
)

// DefaultMaxUploadBytes caps multipart uploads when no limit is configured
const DefaultMaxUploadBytes = 10 << 20

// UploadLimit caps the size of one uploaded file in bytes
type UploadLimit int64

// UploadFunc is the UploadAsset operation of a content use case
type UploadFunc func(ctx context.Context, data []byte, fileName, mimeType string) (string, error)

// ParseID reads the :id path parameter, answering 400 when it is not a positive integer
func ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "id must be a positive integer")
		return 0, false
	}
	return id, true
}

// ParsePage reads page and pageSize from the query string. Bad values fall
// through as zero and are normalized by the use case.
func ParsePage(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.Query("page"))
	pageSize, _ = strconv.Atoi(c.Query("pageSize"))
	return page, pageSize
}

// HandleUpload reads the multipart "file" field and hands it to upload.
// On AssetUploadError the client is told to paste an image URL instead.
func HandleUpload(c *gin.Context, upload UploadFunc, limit UploadLimit) {
	maxBytes := int64(limit)
	if maxBytes <= 0 {
		maxBytes = DefaultMaxUploadBytes
	}

	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "file is required")
		return
	}
	if fh.Size > maxBytes {
		response.ErrorWithCode(c, apperrors.ErrUploadTooLarge)
		return
	}

	f, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "file could not be read")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		response.BadRequest(c, "file could not be read")
		return
	}

	url, err := upload(c.Request.Context(), data, fh.Filename, fh.Header.Get("Content-Type"))
	if err != nil {
		response.HandleError(c, err)
		return
	}
	response.Created(c, gin.H{"url": url})
}

// DeleteResult answers a delete that found its row
func DeleteResult(c *gin.Context, deleted bool, err error) {
	if err != nil {
		response.HandleError(c, err)
		return
	}
	if !deleted {
		response.NotFound(c, "record not found")
		return
	}
	c.JSON(http.StatusOK, response.Response{Code: apperrors.Success, Data: gin.H{"deleted": true}})
}
