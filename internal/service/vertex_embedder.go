package service

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// VertexEmbedder uses Google's text-embedding-005 model to generate
// 768-dimensional embeddings. Profile and issue documents go through the
// same model with the same task type so they land in one vector space.
type VertexEmbedder struct {
	client    *aiplatform.PredictionClient
	modelName string
}

// NewVertexEmbedder constructs the prediction client. This is the
// fail-fast model initialisation: if it errors, the caller must not serve
// ranking requests. credentialsFile may be empty, in which case
// application-default credentials apply.
func NewVertexEmbedder(ctx context.Context, projectID, location, credentialsFile string) (*VertexEmbedder, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	opts = append(opts, option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)))

	client, err := aiplatform.NewPredictionClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create Vertex AI client: %w", err)
	}

	modelName := fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/text-embedding-005",
		projectID, location)

	return &VertexEmbedder{
		client:    client,
		modelName: modelName,
	}, nil
}

// Embed generates an embedding vector for a single input text.
func (v *VertexEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := v.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embedding vectors for all texts in a single
// Predict call, so embedding-model overhead stays O(1) per request no
// matter how many candidates are ranked.
func (v *VertexEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	instances := make([]*structpb.Value, 0, len(texts))
	for _, text := range texts {
		instance, err := structpb.NewStruct(map[string]interface{}{
			"content":   text,
			"task_type": "SEMANTIC_SIMILARITY",
		})
		if err != nil {
			return nil, fmt.Errorf("create instance: %w", err)
		}
		instances = append(instances, structpb.NewStructValue(instance))
	}

	req := &aiplatformpb.PredictRequest{
		Endpoint:  v.modelName,
		Instances: instances,
	}

	resp, err := v.client.Predict(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("get prediction: %w", err)
	}
	if len(resp.Predictions) != len(texts) {
		return nil, fmt.Errorf("expected %d predictions, got %d", len(texts), len(resp.Predictions))
	}

	out := make([][]float32, len(resp.Predictions))
	for i, p := range resp.Predictions {
		prediction := p.GetStructValue()
		embeddings := prediction.GetFields()["embeddings"].GetStructValue()
		values := embeddings.GetFields()["values"].GetListValue().GetValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("prediction %d carries no embedding values", i)
		}

		vec := make([]float32, len(values))
		for j, val := range values {
			vec[j] = float32(val.GetNumberValue())
		}
		out[i] = vec
	}

	return out, nil
}

// Close releases the underlying gRPC connection.
func (v *VertexEmbedder) Close() error {
	return v.client.Close()
}
