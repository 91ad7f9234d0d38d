package services

import (
	"context"
	"fmt"
	"time"

	"lovespace-backend/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLTTL = 5 * time.Minute

// MemoryService handles couple memories and their photo attachments. Photos
// are uploaded directly to S3 through pre-signed PUT URLs.
type MemoryService struct {
	memories MemoryStore
	couples  CoupleStore
	s3Bucket string
	s3Region string

	presignPut func(ctx context.Context, key, contentType string) (string, error)
	clock      func() time.Time
	newID      func() string
}

// NewMemoryService creates a new memory service with a real S3 presigner.
// accessKey/secretKey and endpoint are optional; when endpoint is set the
// client switches to path-style addressing for S3-compatible stores.
func NewMemoryService(
	memories MemoryStore,
	couples CoupleStore,
	awsRegion, s3Bucket, accessKey, secretKey, endpoint string,
) (*MemoryService, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(awsRegion),
	}
	if accessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	presignClient := s3.NewPresignClient(s3Client)

	svc := &MemoryService{
		memories: memories,
		couples:  couples,
		s3Bucket: s3Bucket,
		s3Region: awsRegion,
		clock:    time.Now,
		newID:    func() string { return uuid.New().String() },
	}
	svc.presignPut = func(ctx context.Context, key, contentType string) (string, error) {
		request, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s3Bucket),
			Key:         aws.String(key),
			ContentType: aws.String(contentType),
		}, func(opts *s3.PresignOptions) {
			opts.Expires = uploadURLTTL
		})
		if err != nil {
			return "", fmt.Errorf("failed to generate pre-signed URL: %w", err)
		}
		return request.URL, nil
	}
	return svc, nil
}

// ListMemories returns all memories of the caller's couple, newest first.
func (s *MemoryService) ListMemories(ctx context.Context, callerID string) ([]*models.Memory, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	return s.memories.ListByCoupleID(ctx, couple.ID)
}

// CreateMemory creates a memory in the caller's couple.
func (s *MemoryService) CreateMemory(ctx context.Context, callerID, title string, description *string, memType models.MemoryType) (*models.Memory, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("title is required")
	}
	switch memType {
	case models.MemoryTypeWishlist, models.MemoryTypeCompleted, models.MemoryTypeMilestone:
	case "":
		memType = models.MemoryTypeWishlist
	default:
		return nil, fmt.Errorf("invalid memory type %q", memType)
	}

	now := s.clock().UTC()
	memory := &models.Memory{
		ID:          s.newID(),
		CoupleID:    couple.ID,
		Title:       title,
		Description: description,
		Type:        memType,
		Completed:   memType == models.MemoryTypeCompleted,
		Photos:      []string{},
		CreatedBy:   callerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if memory.Completed {
		completedDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		memory.CompletedDate = &completedDate
	}

	if err := s.memories.Create(ctx, memory); err != nil {
		return nil, fmt.Errorf("failed to create memory: %w", err)
	}
	return memory, nil
}

// CompleteMemory marks one of the couple's memories completed today.
func (s *MemoryService) CompleteMemory(ctx context.Context, callerID, memoryID string) error {
	memory, err := s.coupleMemory(ctx, callerID, memoryID)
	if err != nil {
		return err
	}

	now := s.clock().UTC()
	completedDate := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if err := s.memories.MarkCompleted(ctx, memory.ID, completedDate, now); err != nil {
		return fmt.Errorf("failed to complete memory: %w", err)
	}
	return nil
}

// PhotoUpload is the pre-signed upload grant for one memory photo.
type PhotoUpload struct {
	UploadURL string `json:"upload_url"`
	PhotoURL  string `json:"photo_url"`
	ExpiresIn int    `json:"expires_in"`
}

// AttachPhoto grants a pre-signed PUT for a new photo on one of the
// couple's memories and records the final photo URL on the memory.
func (s *MemoryService) AttachPhoto(ctx context.Context, callerID, memoryID, contentType string) (*PhotoUpload, error) {
	memory, err := s.coupleMemory(ctx, callerID, memoryID)
	if err != nil {
		return nil, err
	}
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("%s/%s/%s.jpg", memory.CoupleID, memory.ID, s.newID())
	uploadURL, err := s.presignPut(ctx, key, contentType)
	if err != nil {
		return nil, err
	}

	photoURL := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, key)
	if err := s.memories.AddPhoto(ctx, memory.ID, photoURL, s.clock().UTC()); err != nil {
		return nil, fmt.Errorf("failed to record memory photo: %w", err)
	}

	return &PhotoUpload{
		UploadURL: uploadURL,
		PhotoURL:  photoURL,
		ExpiresIn: int(uploadURLTTL.Seconds()),
	}, nil
}

// coupleMemory resolves a memory and checks it belongs to the caller's
// couple.
func (s *MemoryService) coupleMemory(ctx context.Context, callerID, memoryID string) (*models.Memory, error) {
	couple, err := s.requireCouple(ctx, callerID)
	if err != nil {
		return nil, err
	}
	memory, err := s.memories.GetByID(ctx, memoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get memory: %w", err)
	}
	if memory == nil || memory.CoupleID != couple.ID {
		return nil, ErrMemoryNotFound
	}
	return memory, nil
}

func (s *MemoryService) requireCouple(ctx context.Context, callerID string) (*models.Couple, error) {
	if callerID == "" {
		return nil, ErrAuthRequired
	}
	couple, err := s.couples.GetCurrentByUser(ctx, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current couple: %w", err)
	}
	if couple == nil {
		return nil, ErrCoupleRequired
	}
	return couple, nil
}
