package pnl

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	uploadDefaultBucket  = "sellerledger"
	uploadPrefix         = "marketplace-exports/"
	uploadDefaultRegion  = "ap-southeast-1"
	uploadDefaultBaseURL = "https://sellerledger.s3.ap-southeast-1.amazonaws.com/"
)

func uploadBucket() string {
	if b := strings.TrimSpace(os.Getenv("UPLOAD_S3_BUCKET")); b != "" {
		return b
	}
	return uploadDefaultBucket
}

func uploadRegion() string {
	if r := strings.TrimSpace(os.Getenv("UPLOAD_S3_REGION")); r != "" {
		return r
	}
	return uploadDefaultRegion
}

func uploadBaseURL() string {
	if u := strings.TrimSpace(os.Getenv("UPLOAD_S3_BASE_URL")); u != "" {
		u = strings.TrimSuffix(u, "/")
		return u + "/"
	}
	return uploadDefaultBaseURL
}

// isS3Enabled reads env var UPLOAD_S3_ENABLED to determine whether the
// original marketplace exports are archived to S3. Defaults to false when
// unset; archival is best effort and never fails an upload.
func isS3Enabled() bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv("UPLOAD_S3_ENABLED")))
	return v == "1" || v == "true" || v == "yes"
}

func sanitizePathSegment(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_")
	return replacer.Replace(s)
}

func buildUploadS3Key(platform, kind, shopName, fileHash, fileExt string) string {
	ext := strings.TrimSpace(fileExt)
	if ext == "" {
		ext = ".bin"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return fmt.Sprintf("%s%s/%s/%s/%s%s", uploadPrefix,
		sanitizePathSegment(strings.ToLower(platform)), kind,
		sanitizePathSegment(shopName), fileHash, ext)
}

func detectContentType(data []byte) string {
	if len(data) == 0 {
		return "application/octet-stream"
	}
	if len(data) > 512 {
		return http.DetectContentType(data[:512])
	}
	return http.DetectContentType(data)
}

func archiveUploadToS3(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	bucket := uploadBucket()
	region := uploadRegion()
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return "", fmt.Errorf("load AWS config: %w", err)
	}
	client := s3.NewFromConfig(cfg)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload to s3 (bucket %s, key %s): %w", bucket, key, err)
	}
	return uploadBaseURL() + key, nil
}
