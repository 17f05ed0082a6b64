package kvsupload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/kinesisvideo"
)

type fakeResolver struct {
	endpoint string
}

func (f fakeResolver) GetDataEndpoint(ctx context.Context, params *kinesisvideo.GetDataEndpointInput, optFns ...func(*kinesisvideo.Options)) (*kinesisvideo.GetDataEndpointOutput, error) {
	return &kinesisvideo.GetDataEndpointOutput{DataEndpoint: aws.String(f.endpoint)}, nil
}

func TestClientUploadSignsAndPosts(t *testing.T) {
	var gotAuth, gotStreamName string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotStreamName = r.Header.Get("x-amzn-stream-name")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"EventType":"BUFFERING"}`))
	}))
	defer srv.Close()

	c := &Client{
		kv:     fakeResolver{endpoint: srv.URL},
		creds:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		region: "us-east-1",
		log:    noopLogger{},
	}

	body := []byte("fake muxed segment bytes")
	rc, err := c.Upload(context.Background(), StreamID{Name: "my-stream"}, body)
	if err != nil {
		t.Fatal(err)
	}
	defer rc.Close()

	if gotAuth == "" {
		t.Error("expected a SigV4 Authorization header")
	}
	if gotStreamName != "my-stream" {
		t.Errorf("x-amzn-stream-name = %q, want %q", gotStreamName, "my-stream")
	}
	if string(gotBody) != string(body) {
		t.Errorf("server received % X, want % X", gotBody, body)
	}
}

func TestClientUploadPropagatesEndpointError(t *testing.T) {
	c := &Client{
		kv:     errResolver{},
		creds:  credentials.NewStaticCredentialsProvider("AKIDEXAMPLE", "secret", ""),
		region: "us-east-1",
		log:    noopLogger{},
	}
	if _, err := c.Upload(context.Background(), StreamID{Name: "my-stream"}, nil); err == nil {
		t.Fatal("expected an error when endpoint resolution fails")
	}
}

type errResolver struct{}

func (errResolver) GetDataEndpoint(ctx context.Context, params *kinesisvideo.GetDataEndpointInput, optFns ...func(*kinesisvideo.Options)) (*kinesisvideo.GetDataEndpointOutput, error) {
	return nil, io.ErrUnexpectedEOF
}
