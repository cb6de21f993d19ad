package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
)

// keyFolder groups attachments inside the bucket.
const keyFolder = "complaints"

// S3Config describes an S3 or S3-compatible bucket.
type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string // empty for AWS, set for MinIO, PSCloud and friends
	AccessKey string
	SecretKey string
}

// S3 uploads attachments to a bucket and returns their public URL.
type S3 struct {
	client s3iface.S3API
	cfg    S3Config
}

// NewS3 builds a session from cfg. Static credentials are used when both
// keys are set, otherwise the SDK's default chain applies.
func NewS3(cfg S3Config) (*S3, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create s3 session: %w", err)
	}
	return NewS3WithClient(s3.New(sess), cfg), nil
}

// NewS3WithClient uses an existing client.
func NewS3WithClient(client s3iface.S3API, cfg S3Config) *S3 {
	return &S3{client: client, cfg: cfg}
}

// Save uploads data under complaints/<id>_<filename>.
func (s *S3) Save(ctx context.Context, id int64, filename string, data io.Reader) (string, error) {
	name, err := objectName(id, filename)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(data)
	if err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}

	key := keyFolder + "/" + name
	_, err = s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentLength: aws.Int64(int64(len(body))),
		ContentType:   aws.String(http.DetectContentType(body)),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %w", err)
	}

	return s.objectURL(key), nil
}

// Delete removes the object behind a URL returned by Save.
func (s *S3) Delete(ctx context.Context, location string) error {
	key, ok := strings.CutPrefix(location, s.objectURL(""))
	if !ok || key == "" {
		return fmt.Errorf("%s is not an object of bucket %s", location, s.cfg.Bucket)
	}
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("unable to delete %s from S3: %w", key, err)
	}
	return nil
}

func (s *S3) objectURL(key string) string {
	if s.cfg.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.cfg.Endpoint, "/"), s.cfg.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
}
