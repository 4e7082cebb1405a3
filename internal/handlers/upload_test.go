package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestValidateImageFilename(t *testing.T) {
	valid := []string{"photo.jpg", "photo.JPG", "photo.jpeg", "photo.png"}
	for _, name := range valid {
		if err := validateImageFilename(name); err != nil {
			t.Fatalf("expected %q to be accepted, got %v", name, err)
		}
	}

	invalid := []string{"photo", "photo.gif", "photo.webp", "photo.png.exe"}
	for _, name := range invalid {
		if err := validateImageFilename(name); err == nil {
			t.Fatalf("expected %q to be rejected", name)
		}
	}
}

func TestUploadFormFileExtraction(t *testing.T) {
	gin.SetMode(gin.TestMode)
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "product.png")
	if err != nil {
		t.Fatalf("CreateFormFile returned error: %v", err)
	}
	if _, err := part.Write([]byte{0x89, 0x50, 0x4e, 0x47}); err != nil {
		t.Fatalf("writing image bytes failed: %v", err)
	}
	_ = writer.Close()

	req := httptest.NewRequest("POST", "/api/upload/1", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	file, err := c.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile returned error: %v", err)
	}
	if file.Filename != "product.png" {
		t.Fatalf("expected filename product.png, got %q", file.Filename)
	}
	if err := validateImageFilename(file.Filename); err != nil {
		t.Fatalf("expected upload to validate, got %v", err)
	}
}
