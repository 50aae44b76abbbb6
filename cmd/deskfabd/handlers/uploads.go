package handlers

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/labstack/echo/v4"
	apiuploads "github.com/opsberry/deskfab-api-types/uploads"
	apierr "github.com/opsberry/deskfab/pkg/api/errors"
	"github.com/opsberry/deskfab/pkg/platform"
)

var allowedFolders = map[string]bool{
	"hr": true, "it_helpdesk": true, "benefits": true,
	"payroll": true, "training": true,
}

var fileNamePattern = regexp.MustCompile(`(?i)^[\w\-. ]+\.(pdf|doc|docx)$`)

func UploadHandler(store platform.BlobStore) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		req := apiuploads.Request{}
		if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
			return apierr.BadRequest("request body should be JSON", err)
		}

		if !allowedFolders[req.Folder] {
			return apierr.BadRequest(
				fmt.Sprintf("folder %q is not a knowledge area", req.Folder), nil,
			)
		}
		if len(req.Files) == 0 {
			return apierr.BadRequest("no files to upload", nil)
		}

		stored := []string{}
		for _, file := range req.Files {
			if !fileNamePattern.MatchString(file.Name) {
				c.Logger().Warnf("upload rejected (name): %s", file.Name)
				continue
			}
			body, err := decodeContent(file.Content)
			if err != nil {
				c.Logger().Warnf("upload rejected (content): %s: %v", file.Name, err)
				continue
			}
			key := req.Folder + "/" + file.Name
			if err := store.Put(ctx, key, file.Type, body); err != nil {
				return apierr.InternalServerError(
					fmt.Errorf("store %s: %w", key, err),
				)
			}
			stored = append(stored, file.Name)
		}

		if len(stored) == 0 {
			return c.JSON(http.StatusBadRequest, apiuploads.Response{
				Success: false,
				Message: "no file was accepted. names should match *.pdf, *.doc or *.docx and contents should be base64",
				Folder:  req.Folder,
			})
		}

		return c.JSON(http.StatusOK, apiuploads.Response{
			Success: true,
			Message: fmt.Sprintf("%d file(s) uploaded to %s", len(stored), req.Folder),
			Files:   stored,
			Folder:  req.Folder,
		})
	}
}

// decodeContent strips an optional browser-style "data:...;base64,"
// prefix, then decodes base64 with or without padding.
func decodeContent(content string) ([]byte, error) {
	if _, after, found := strings.Cut(content, ";base64,"); found {
		content = after
	}
	if body, err := base64.StdEncoding.DecodeString(content); err == nil {
		return body, nil
	}
	return base64.RawStdEncoding.DecodeString(content)
}
