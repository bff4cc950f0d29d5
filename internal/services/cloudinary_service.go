package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// ProofImage is a stored proof-of-purchase blob.
type ProofImage struct {
	URL      string
	PublicID string
}

// BlobStore stores proof images. A submission without a stored image is
// invalid, so upload failures are fatal to the submission; Destroy exists so
// callers can clean up when the record itself cannot be persisted.
type BlobStore interface {
	UploadProof(ctx context.Context, r io.Reader) (*ProofImage, error)
	Destroy(ctx context.Context, publicID string) error
}

// CloudinaryService is the Cloudinary-backed BlobStore.
type CloudinaryService struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryService initializes a Cloudinary client from a
// cloudinary:// URL.
func NewCloudinaryService(cloudinaryURL, folder string) (*CloudinaryService, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary URL is required")
	}

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &CloudinaryService{cld: cld, folder: folder}, nil
}

// UploadProof uploads an image and returns its HTTPS URL and public ID.
func (s *CloudinaryService) UploadProof(ctx context.Context, r io.Reader) (*ProofImage, error) {
	publicID := fmt.Sprintf("%s/%d", s.folder, time.Now().UnixNano())

	result, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:       publicID,
		Folder:         s.folder,
		ResourceType:   "image",
		Overwrite:      api.Bool(false),
		UniqueFilename: api.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	url := result.SecureURL
	if url == "" {
		url = result.URL
	}

	return &ProofImage{URL: url, PublicID: result.PublicID}, nil
}

// Destroy removes a previously uploaded image by its public ID.
func (s *CloudinaryService) Destroy(ctx context.Context, publicID string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "image",
	})
	return err
}
