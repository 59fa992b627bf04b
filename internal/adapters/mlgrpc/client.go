// Package mlgrpc implements mlpredictor.TrainPredictPort against an
// external gradient-boosted-model training/scoring service over gRPC.
// Since no shared .proto contract exists for this service, requests and responses
// ride a JSON codec (see codec.go) through conn.Invoke rather than a
// generated pb.XxxClient.
package mlgrpc

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/encoding"

	"github.com/orcalabs/kyogre/internal/domain/mlmodel"
	"github.com/orcalabs/kyogre/internal/infrastructure/config"
)

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// requestsPerSecond caps outbound Train/Predict calls so a backlog of
// orchestrator cycles can't overwhelm the model service.
const requestsPerSecond = 5

// Client implements mlpredictor.TrainPredictPort over a gRPC connection
// to the external model service.
type Client struct {
	conn    *grpc.ClientConn
	cfg     *config.MLConfig
	limiter *rate.Limiter
}

// NewClient dials the ML service at cfg.Address.
func NewClient(ctx context.Context, cfg *config.MLConfig) (*Client, error) {
	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeout.Connect)
	defer cancel()

	conn, err := grpc.DialContext(dialCtx, cfg.Address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
		grpc.WithBlock(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ml service at %s: %w", cfg.Address, err)
	}

	return &Client{conn: conn, cfg: cfg, limiter: rate.NewLimiter(requestsPerSecond, 1)}, nil
}

// Close closes the gRPC connection.
func (c *Client) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

type trainRequest struct {
	ModelBytes []byte                `json:"model_bytes,omitempty"`
	Rows       []mlmodel.TrainingRow `json:"rows"`
	Rounds     int                   `json:"rounds"`
	UseGPU     bool                  `json:"use_gpu"`
}

type trainResponse struct {
	ModelBytes []byte `json:"model_bytes"`
}

// Train sends a training request and returns the retrained model's
// serialized bytes.
func (c *Client) Train(ctx context.Context, modelBytes []byte, rows []mlmodel.TrainingRow, rounds int, useGPU bool) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout.Train)
	defer cancel()

	req := &trainRequest{ModelBytes: modelBytes, Rows: rows, Rounds: rounds, UseGPU: useGPU}
	resp := &trainResponse{}
	if err := c.conn.Invoke(ctx, "/kyogre.ml.ModelService/Train", req, resp); err != nil {
		return nil, fmt.Errorf("gRPC Train failed: %w", err)
	}
	return resp.ModelBytes, nil
}

type predictRequest struct {
	ModelBytes []byte                  `json:"model_bytes"`
	Rows       []mlmodel.PredictionRow `json:"rows"`
}

type predictResponse struct {
	Scores []float64 `json:"scores"`
}

// Predict scores a batch of prediction rows against a trained model.
func (c *Client) Predict(ctx context.Context, modelBytes []byte, rows []mlmodel.PredictionRow) ([]float64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout.Predict)
	defer cancel()

	req := &predictRequest{ModelBytes: modelBytes, Rows: rows}
	resp := &predictResponse{}
	if err := c.conn.Invoke(ctx, "/kyogre.ml.ModelService/Predict", req, resp); err != nil {
		return nil, fmt.Errorf("gRPC Predict failed: %w", err)
	}
	return resp.Scores, nil
}
