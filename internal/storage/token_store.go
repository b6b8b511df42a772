package storage

import (
	"bytes"
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// TokenStore keeps named Jira bearer tokens.
type TokenStore interface {
	GetToken(ctx context.Context, name string) (string, error)
	SetToken(ctx context.Context, name, token string) error
}

// s3API is the part of *s3.Client the store needs.
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3TokenStore implements TokenStore using AWS S3. Tokens are encrypted with
// AES-256-GCM before they leave the process.
type S3TokenStore struct {
	client     s3API
	bucketName string
	encryptKey []byte // 32-byte key for AES-256
}

type tokenData struct {
	Token string `json:"token"`
}

// NewS3TokenStore creates a new S3TokenStore instance
func NewS3TokenStore(client s3API, bucketName string, encryptKey []byte) (*S3TokenStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("bucket name is required")
	}
	if len(encryptKey) != 32 {
		return nil, fmt.Errorf("encrypt key must be 32 bytes, got %d", len(encryptKey))
	}
	return &S3TokenStore{
		client:     client,
		bucketName: bucketName,
		encryptKey: encryptKey,
	}, nil
}

// NewS3TokenStoreFromEnv builds the store with the default AWS credential
// chain. encodedKey is the base64 form of the AES key.
func NewS3TokenStoreFromEnv(ctx context.Context, bucketName, encodedKey string) (*S3TokenStore, error) {
	key, err := DecodeKey(encodedKey)
	if err != nil {
		return nil, err
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3TokenStore(s3.NewFromConfig(cfg), bucketName, key)
}

// DecodeKey parses a base64 encoded AES-256 key.
func DecodeKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode encrypt key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("encrypt key must be 32 bytes, got %d", len(key))
	}
	return key, nil
}

// GetToken retrieves and decrypts the token stored under name
func (s *S3TokenStore) GetToken(ctx context.Context, name string) (string, error) {
	key := s.getKey(name)

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("failed to get token from S3: %w", err)
	}
	defer result.Body.Close()

	var data tokenData
	if err := json.NewDecoder(result.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("failed to decode token data: %w", err)
	}

	decryptedToken, err := s.decrypt(data.Token)
	if err != nil {
		return "", fmt.Errorf("failed to decrypt token: %w", err)
	}

	return decryptedToken, nil
}

// SetToken encrypts and stores a token under name
func (s *S3TokenStore) SetToken(ctx context.Context, name, token string) error {
	key := s.getKey(name)

	encryptedToken, err := s.encrypt(token)
	if err != nil {
		return fmt.Errorf("failed to encrypt token: %w", err)
	}

	jsonData, err := json.Marshal(tokenData{Token: encryptedToken})
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(jsonData),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to store token in S3: %w", err)
	}

	return nil
}

// encrypt encrypts the token using AES-GCM
func (s *S3TokenStore) encrypt(plaintext string) (string, error) {
	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", err
	}

	// nonce is prepended to the sealed data
	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// decrypt decrypts the token using AES-GCM
func (s *S3TokenStore) decrypt(encryptedText string) (string, error) {
	ciphertext, err := base64.StdEncoding.DecodeString(encryptedText)
	if err != nil {
		return "", err
	}

	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}

	if len(ciphertext) < aesGCM.NonceSize() {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce := ciphertext[:aesGCM.NonceSize()]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext[aesGCM.NonceSize():], nil)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

func (s *S3TokenStore) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.encryptKey)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

// getKey generates the S3 key for a named token
func (s *S3TokenStore) getKey(name string) string {
	return fmt.Sprintf("tokens/%s.json", name)
}
