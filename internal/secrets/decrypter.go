package secrets

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/kms"
)

// Decrypter turns a stored ciphertext value into plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, ciphertext string) (string, error)
}

type kmsAPI interface {
	Decrypt(ctx context.Context, params *kms.DecryptInput, optFns ...func(*kms.Options)) (*kms.DecryptOutput, error)
}

// KMSDecrypter decrypts base64 encoded ciphertext blobs with AWS KMS.
type KMSDecrypter struct {
	client kmsAPI
}

// NewKMSDecrypter builds a decrypter from the default AWS credential chain.
func NewKMSDecrypter(ctx context.Context) (*KMSDecrypter, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return &KMSDecrypter{client: kms.NewFromConfig(cfg)}, nil
}

// NewKMSDecrypterWithClient wraps an existing KMS client.
func NewKMSDecrypterWithClient(client kmsAPI) *KMSDecrypter {
	return &KMSDecrypter{client: client}
}

// Decrypt base64-decodes ciphertext and asks KMS for the plaintext.
func (d *KMSDecrypter) Decrypt(ctx context.Context, ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	out, err := d.client.Decrypt(ctx, &kms.DecryptInput{CiphertextBlob: blob})
	if err != nil {
		return "", fmt.Errorf("kms decrypt: %w", err)
	}
	if out == nil || out.Plaintext == nil {
		return "", fmt.Errorf("kms decrypt: empty plaintext for key %s", aws.ToString(keyID(out)))
	}
	return string(out.Plaintext), nil
}

func keyID(out *kms.DecryptOutput) *string {
	if out == nil {
		return nil
	}
	return out.KeyId
}

// PlainDecrypter returns values unchanged. Local development only.
type PlainDecrypter struct{}

// Decrypt returns ciphertext as-is.
func (PlainDecrypter) Decrypt(_ context.Context, ciphertext string) (string, error) {
	return ciphertext, nil
}

// NewDecrypter returns the decrypter for mode: "kms" uses AWS KMS, "plain"
// passes values through.
func NewDecrypter(ctx context.Context, mode string) (Decrypter, error) {
	switch mode {
	case "kms":
		d, err := NewKMSDecrypter(ctx)
		if err != nil {
			return nil, err
		}
		return d, nil
	case "plain":
		return PlainDecrypter{}, nil
	default:
		return nil, fmt.Errorf("unsupported secrets mode %q", mode)
	}
}
