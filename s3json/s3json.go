// Package s3json grava e lê objetos JSON no S3. Objetos com Content-Encoding
// gzip são comprimidos na escrita e descomprimidos na leitura.
package s3json

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"

	"github.com/raywall/fast-aws-toolkit/casing"
	"github.com/raywall/fast-aws-toolkit/clientkit"
	"github.com/raywall/fast-aws-toolkit/envelope"
)

const (
	// DefaultName é o nome do cliente no registry quando WithName não é usado.
	DefaultName = "s3"

	contentTypeJSON = "application/json"
	requestIDMeta   = "request-id"
)

// API é o subconjunto do *s3.Client usado pelo wrapper.
type API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type Option = clientkit.Option[API, s3.Options]

var (
	WithName          = clientkit.WithName[API, s3.Options]
	WithRequestID     = clientkit.WithRequestID[API, s3.Options]
	WithLogger        = clientkit.WithLogger[API, s3.Options]
	WithMetrics       = clientkit.WithMetrics[API, s3.Options]
	WithRegistry      = clientkit.WithRegistry[API, s3.Options]
	WithAWSConfig     = clientkit.WithAWSConfig[API, s3.Options]
	WithAPI           = clientkit.WithAPI[API, s3.Options]
	WithClientOptions = clientkit.WithClientOptions[API, s3.Options]
)

// BucketConfig identifica o bucket usado por todas as chamadas.
type BucketConfig struct {
	Bucket string `env:"S3_BUCKET,required" validate:"required"`
}

// metadados de usuário são devolvidos e enviados sem conversão de casing
var metadataRules = []casing.Rule{casing.Keep("metadata")}

// Client lê e grava objetos JSON em um bucket.
type Client struct {
	clientkit.Base
	api    API
	bucket string
}

// New valida cfg e resolve o cliente do SDK.
func New(ctx context.Context, cfg BucketConfig, opts ...Option) (*Client, error) {
	if err := clientkit.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("s3json: %w", err)
	}

	s := clientkit.Apply(ctx, DefaultName, opts)
	api, err := s.Client(ctx, newAPI)
	if err != nil {
		return nil, fmt.Errorf("s3json: %w", err)
	}

	return &Client{
		Base:   clientkit.NewBase("S3Client", s, map[string]any{"bucket": cfg.Bucket}),
		api:    api,
		bucket: cfg.Bucket,
	}, nil
}

func newAPI(cfg aws.Config, fns ...func(*s3.Options)) API {
	return s3.NewFromConfig(cfg, fns...)
}

// PutJSON grava input serializado em JSON sob key. O request id vai em
// Metadata["request-id"]. Com params["contentEncoding"] = "gzip" o corpo é
// comprimido. Devolve location, eTag, bucket e key, mais os demais campos da
// resposta (versionId, serverSideEncryption, ...).
func (c *Client) PutJSON(ctx context.Context, key string, input any, params map[string]any) (map[string]any, error) {
	ctx, call := c.Begin(ctx, "putJson", withKey(key, params))
	call.Start(input)

	req := envelope.Build(
		map[string]any{"contentType": contentTypeJSON},
		params,
		map[string]any{"bucket": c.bucket, "key": key},
		metadataRules...,
	)
	envelope.Merge(req, "Metadata", map[string]any{requestIDMeta: c.RequestID()})
	delete(req, "Body")

	var in s3.PutObjectInput
	if err := envelope.Decode(req, &in); err != nil {
		return nil, call.Fail(err)
	}

	body, err := encodeBody(input, ParseContentEncoding(aws.ToString(in.ContentEncoding)))
	if err != nil {
		return nil, call.Fail(err)
	}
	in.Body = bytes.NewReader(body)
	in.ContentLength = aws.Int64(int64(len(body)))

	out, err := c.api.PutObject(ctx, &in)
	if err != nil {
		return nil, call.Fail(err)
	}

	data := envelope.Normalize(out)
	data["location"] = location(c.bucket, key)
	data["bucket"] = c.bucket
	data["key"] = key

	call.Data(data)
	call.End()
	return data, nil
}

// GetJSON lê o objeto em key e devolve o JSON decodificado e os metadados da
// resposta (contentType, eTag, lastModified, metadata, ...).
func (c *Client) GetJSON(ctx context.Context, key string, params map[string]any) (any, map[string]any, error) {
	ctx, call := c.Begin(ctx, "getJson", withKey(key, params))
	call.Start(nil)

	req := envelope.Build(nil, params, map[string]any{"bucket": c.bucket, "key": key}, metadataRules...)

	var in s3.GetObjectInput
	if err := envelope.Decode(req, &in); err != nil {
		return nil, nil, call.Fail(err)
	}

	out, err := c.api.GetObject(ctx, &in)
	if err != nil {
		return nil, nil, call.Fail(err)
	}
	defer out.Body.Close()

	data, err := decodeBody(out.Body, ParseContentEncoding(aws.ToString(out.ContentEncoding)))
	if err != nil {
		return nil, nil, call.Fail(err)
	}

	meta := envelope.Normalize(out, envelope.WithRules(metadataRules...))
	call.Data(map[string]any{"data": data, "meta": meta})
	call.End()
	return data, meta, nil
}

func encodeBody(input any, enc ContentEncoding) ([]byte, error) {
	raw, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("s3json: encode body: %w", err)
	}
	if !enc.IsGzip() {
		return raw, nil
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return nil, fmt.Errorf("s3json: gzip body: %w", err)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("s3json: gzip body: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeBody(body io.Reader, enc ContentEncoding) (any, error) {
	if enc.IsGzip() {
		zr, err := gzip.NewReader(body)
		if err != nil {
			return nil, fmt.Errorf("s3json: gunzip body: %w", err)
		}
		defer zr.Close()
		body = zr
	}

	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("s3json: read body: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, nil
	}

	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("s3json: decode body: %w", err)
	}
	return data, nil
}

// location segue o formato virtual-hosted do endpoint global.
func location(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, strings.Join(segments, "/"))
}

func withKey(key string, params map[string]any) map[string]any {
	meta := make(map[string]any, len(params)+1)
	for k, v := range params {
		meta[k] = v
	}
	meta["key"] = key
	return meta
}
