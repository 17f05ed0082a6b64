// Copyright 2020 SEQSENSE, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package kvsupload uploads an already-muxed Matroska segment to a Kinesis
// Video Streams PutMedia endpoint. It is a consumer of the mux package's
// output, not a collaborator of it: the muxer has no network concern, and
// this package does not import mux at all.
package kvsupload

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/kinesisvideo"
	"github.com/aws/aws-sdk-go-v2/service/kinesisvideo/types"
	"github.com/google/uuid"
)

// LoggerIF is the logging collaborator this package writes diagnostics to.
type LoggerIF interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

type noopLogger struct{}

func (noopLogger) Debugf(format string, args ...interface{}) {}
func (noopLogger) Infof(format string, args ...interface{})  {}
func (noopLogger) Errorf(format string, args ...interface{}) {}

// endpointResolver is the subset of *kinesisvideo.Client this package calls,
// narrowed to an interface so tests can substitute a fake without standing
// up a real Kinesis Video Streams control-plane endpoint.
type endpointResolver interface {
	GetDataEndpoint(ctx context.Context, params *kinesisvideo.GetDataEndpointInput, optFns ...func(*kinesisvideo.Options)) (*kinesisvideo.GetDataEndpointOutput, error)
}

// Client resolves a Kinesis Video Streams data-plane endpoint and uploads
// muxed segments to it.
type Client struct {
	kv     endpointResolver
	creds  aws.CredentialsProvider
	region string
	log    LoggerIF
}

// New builds a Client from an AWS SDK v2 config.
func New(cfg aws.Config, opts ...Option) *Client {
	c := &Client{
		kv:     kinesisvideo.NewFromConfig(cfg),
		creds:  cfg.Credentials,
		region: cfg.Region,
		log:    noopLogger{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Option configures a Client.
type Option func(*Client)

// WithLogger injects a logging collaborator.
func WithLogger(l LoggerIF) Option {
	return func(c *Client) { c.log = l }
}

// StreamID identifies a Kinesis video stream by name or ARN.
type StreamID struct {
	Name string
	ARN  string
}

// Upload resolves streamID's PUT_MEDIA data endpoint and posts body (a
// complete, already-muxed Matroska segment) to it in a single request. It
// returns the fragment acknowledgements the endpoint streams back as its
// response body, unparsed: interpreting the chunked ack protocol belongs to
// the packet producer / caller, not this package.
func (c *Client) Upload(ctx context.Context, streamID StreamID, body []byte) (io.ReadCloser, error) {
	correlationID := uuid.NewString()
	c.log.Debugf("kvsupload[%s]: resolving data endpoint for stream %q", correlationID, streamID.Name)

	ep, err := c.kv.GetDataEndpoint(ctx, &kinesisvideo.GetDataEndpointInput{
		APIName:    types.APINamePutMedia,
		StreamName: optionalString(streamID.Name),
		StreamARN:  optionalString(streamID.ARN),
	})
	if err != nil {
		return nil, fmt.Errorf("kvsupload[%s]: resolving data endpoint: %w", correlationID, err)
	}

	url := aws.ToString(ep.DataEndpoint) + "/putMedia"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("kvsupload[%s]: building request: %w", correlationID, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-amzn-stream-name", streamID.Name)
	req.Header.Set("x-amzn-producer-start-timestamp", fmt.Sprintf("%.6f", float64(time.Now().Unix())))

	sum := sha256.Sum256(body)
	payloadHash := hex.EncodeToString(sum[:])

	creds, err := c.creds.Retrieve(ctx)
	if err != nil {
		return nil, fmt.Errorf("kvsupload[%s]: retrieving credentials: %w", correlationID, err)
	}
	signer := v4.NewSigner()
	if err := signer.SignHTTP(ctx, creds, req, payloadHash, "kinesisvideo", c.region, time.Now()); err != nil {
		return nil, fmt.Errorf("kvsupload[%s]: signing request: %w", correlationID, err)
	}

	c.log.Infof("kvsupload[%s]: uploading %d bytes to stream %q", correlationID, len(body), streamID.Name)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("kvsupload[%s]: put media request: %w", correlationID, err)
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.log.Errorf("kvsupload[%s]: put media failed: %s: %s", correlationID, resp.Status, b)
		return nil, fmt.Errorf("kvsupload[%s]: put media failed: %s", correlationID, resp.Status)
	}
	return resp.Body, nil
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
