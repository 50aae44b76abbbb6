package handlers_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	apiuploads "github.com/opsberry/deskfab-api-types/uploads"
	"github.com/opsberry/deskfab/cmd/deskfabd/handlers"
	httptestutil "github.com/opsberry/deskfab/internal/testutils/http"
	"github.com/opsberry/deskfab/pkg/platform/mocks"
)

func uploadRequest(t *testing.T, folder string, files ...apiuploads.File) *strings.Reader {
	t.Helper()
	body, err := json.Marshal(apiuploads.Request{Folder: folder, Files: files})
	if err != nil {
		t.Fatal(err)
	}
	return strings.NewReader(string(body))
}

func TestUploadHandler(t *testing.T) {
	content := base64.StdEncoding.EncodeToString([]byte("fake document body"))

	t.Run("it stores accepted files under the folder", func(t *testing.T) {
		store := mocks.NewBlobStore()
		store.Impl.Put = func(context.Context, string, string, []byte) error { return nil }

		e := echo.New()
		ctx, resp := httptestutil.Post(
			e, "/api/uploads/",
			uploadRequest(t, "hr",
				apiuploads.File{Name: "leave policy.pdf", Content: content, Type: "application/pdf"},
				apiuploads.File{Name: "handbook.docx", Content: "data:application/vnd;base64," + content},
			),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.UploadHandler(store)(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Code != http.StatusOK {
			t.Errorf("unmatch status: %d, expected: %d", resp.Code, http.StatusOK)
		}
		payload := apiuploads.Response{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatal(err)
		}
		if !payload.Success || len(payload.Files) != 2 || payload.Folder != "hr" {
			t.Errorf("unmatch response: %+v", payload)
		}

		if store.Calls.Put.Times() != 2 {
			t.Fatalf("unmatch put calls: %d", store.Calls.Put.Times())
		}
		if key := store.Calls.Put[0].Key; key != "hr/leave policy.pdf" {
			t.Errorf("unmatch key: %s", key)
		}
		if body := string(store.Calls.Put[0].Body); body != "fake document body" {
			t.Errorf("unmatch body: %s", body)
		}
		if key := store.Calls.Put[1].Key; key != "hr/handbook.docx" {
			t.Errorf("unmatch key: %s", key)
		}
	})

	t.Run("an unknown folder is rejected before storing anything", func(t *testing.T) {
		store := mocks.NewBlobStore()

		e := echo.New()
		ctx, _ := httptestutil.Post(
			e, "/api/uploads/",
			uploadRequest(t, "finance",
				apiuploads.File{Name: "budget.pdf", Content: content},
			),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.UploadHandler(store)(ctx)
		httperr := &echo.HTTPError{}
		if !errors.As(err, &httperr) || httperr.Code != http.StatusBadRequest {
			t.Errorf("unmatch error: %v, expected status: %d", err, http.StatusBadRequest)
		}
		if store.Calls.Put.Times() != 0 {
			t.Errorf("put should not be called: %d", store.Calls.Put.Times())
		}
	})

	t.Run("invalid files are skipped, valid ones stored", func(t *testing.T) {
		store := mocks.NewBlobStore()
		store.Impl.Put = func(context.Context, string, string, []byte) error { return nil }

		e := echo.New()
		ctx, resp := httptestutil.Post(
			e, "/api/uploads/",
			uploadRequest(t, "payroll",
				apiuploads.File{Name: "../etc/passwd.pdf", Content: content},
				apiuploads.File{Name: "virus.exe", Content: content},
				apiuploads.File{Name: "not-base64.pdf", Content: "@@@ not encoded @@@"},
				apiuploads.File{Name: "Payslip Guide.PDF", Content: content},
			),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.UploadHandler(store)(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Code != http.StatusOK {
			t.Errorf("unmatch status: %d, expected: %d", resp.Code, http.StatusOK)
		}
		payload := apiuploads.Response{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatal(err)
		}
		if len(payload.Files) != 1 || payload.Files[0] != "Payslip Guide.PDF" {
			t.Errorf("unmatch accepted files: %+v", payload.Files)
		}
		if store.Calls.Put.Times() != 1 {
			t.Fatalf("unmatch put calls: %d", store.Calls.Put.Times())
		}
		if key := store.Calls.Put[0].Key; key != "payroll/Payslip Guide.PDF" {
			t.Errorf("unmatch key: %s", key)
		}
	})

	t.Run("when nothing is acceptable the response is a 400 with details", func(t *testing.T) {
		store := mocks.NewBlobStore()

		e := echo.New()
		ctx, resp := httptestutil.Post(
			e, "/api/uploads/",
			uploadRequest(t, "training",
				apiuploads.File{Name: "notes.txt", Content: content},
			),
			httptestutil.ContentType("application/json"),
		)

		if err := handlers.UploadHandler(store)(ctx); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if resp.Code != http.StatusBadRequest {
			t.Errorf("unmatch status: %d, expected: %d", resp.Code, http.StatusBadRequest)
		}
		payload := apiuploads.Response{}
		if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
			t.Fatal(err)
		}
		if payload.Success {
			t.Errorf("unmatch response: %+v", payload)
		}
	})

	t.Run("a storage failure is an internal error", func(t *testing.T) {
		store := mocks.NewBlobStore()
		store.Impl.Put = func(context.Context, string, string, []byte) error {
			return errors.New("fake storage failure")
		}

		e := echo.New()
		ctx, _ := httptestutil.Post(
			e, "/api/uploads/",
			uploadRequest(t, "benefits",
				apiuploads.File{Name: "dental.pdf", Content: content},
			),
			httptestutil.ContentType("application/json"),
		)

		err := handlers.UploadHandler(store)(ctx)
		httperr := &echo.HTTPError{}
		if !errors.As(err, &httperr) || httperr.Code != http.StatusInternalServerError {
			t.Errorf("unmatch error: %v, expected status: %d", err, http.StatusInternalServerError)
		}
	})
}
