package vectorindex

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// QdrantConfig holds connection settings for a Qdrant server.
type QdrantConfig struct {
	// Addr is the gRPC endpoint, host:port.
	Addr       string
	Collection string
	Dimensions int
}

// QdrantConfigFromEnv reads Qdrant settings from CAPLEARN_QDRANT_ADDR
// and CAPLEARN_QDRANT_COLLECTION, with local defaults.
func QdrantConfigFromEnv(dimensions int) QdrantConfig {
	cfg := QdrantConfig{
		Addr:       os.Getenv("CAPLEARN_QDRANT_ADDR"),
		Collection: os.Getenv("CAPLEARN_QDRANT_COLLECTION"),
		Dimensions: dimensions,
	}
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6334"
	}
	if cfg.Collection == "" {
		cfg.Collection = "caplearn_chunks"
	}
	return cfg
}

// QdrantIndex implements Index against a Qdrant server over gRPC.
type QdrantIndex struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	dimensions  int
}

// NewQdrantIndex connects to Qdrant and ensures the collection exists
// with a cosine-distance vector config of the given width.
func NewQdrantIndex(ctx context.Context, cfg QdrantConfig) (*QdrantIndex, error) {
	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("connect to Qdrant at %s: %w", cfg.Addr, err)
	}

	idx := &QdrantIndex{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		dimensions:  cfg.Dimensions,
	}

	if err := idx.ensureCollection(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	return idx, nil
}

func (q *QdrantIndex) Close() error {
	return q.conn.Close()
}

func (q *QdrantIndex) ensureCollection(ctx context.Context) error {
	list, err := q.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("list collections: %w: %v", ErrUnavailable, err)
	}
	for _, c := range list.Collections {
		if c.Name == q.collection {
			return nil
		}
	}

	_, err = q.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(q.dimensions),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection %s: %w", q.collection, err)
	}
	return nil
}

func (q *QdrantIndex) Upsert(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]*qdrantclient.PointStruct, len(entries))
	for i, e := range entries {
		points[i] = &qdrantclient.PointStruct{
			Id: &qdrantclient.PointId{
				PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: pointID(e.TopicID, e.FileName, e.ChunkIndex)},
			},
			Vectors: &qdrantclient.Vectors{
				VectorsOptions: &qdrantclient.Vectors_Vector{
					Vector: &qdrantclient.Vector{Data: e.Vector},
				},
			},
			Payload: map[string]*qdrantclient.Value{
				"topic_id":    {Kind: &qdrantclient.Value_StringValue{StringValue: e.TopicID}},
				"file_name":   {Kind: &qdrantclient.Value_StringValue{StringValue: e.FileName}},
				"chunk_index": {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(e.ChunkIndex)}},
				"content":     {Kind: &qdrantclient.Value_StringValue{StringValue: e.Content}},
			},
		}
	}

	_, err := q.points.Upsert(ctx, &qdrantclient.UpsertPoints{
		CollectionName: q.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert %d points: %w: %v", len(points), ErrUnavailable, err)
	}
	return nil
}

func (q *QdrantIndex) Search(ctx context.Context, topicID string, vector []float32, limit, candidates int) ([]Hit, error) {
	req := &qdrantclient.SearchPoints{
		CollectionName: q.collection,
		Vector:         vector,
		Limit:          uint64(limit),
		Filter:         topicFilter(topicID),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Include{
				Include: &qdrantclient.PayloadIncludeSelector{
					Fields: []string{"topic_id", "file_name", "chunk_index", "content"},
				},
			},
		},
	}
	if candidates > 0 {
		req.Params = &qdrantclient.SearchParams{HnswEf: ptr(uint64(candidates))}
	}

	resp, err := q.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search topic %s: %w: %v", topicID, ErrUnavailable, err)
	}

	hits := make([]Hit, len(resp.Result))
	for i, p := range resp.Result {
		hits[i] = Hit{
			TopicID:    p.Payload["topic_id"].GetStringValue(),
			FileName:   p.Payload["file_name"].GetStringValue(),
			ChunkIndex: int(p.Payload["chunk_index"].GetIntegerValue()),
			Content:    p.Payload["content"].GetStringValue(),
			Score:      p.GetScore(),
		}
	}
	return hits, nil
}

func (q *QdrantIndex) DeleteTopic(ctx context.Context, topicID string) error {
	_, err := q.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: q.collection,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: topicFilter(topicID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("delete topic %s: %w: %v", topicID, ErrUnavailable, err)
	}
	return nil
}

func topicFilter(topicID string) *qdrantclient.Filter {
	return &qdrantclient.Filter{
		Must: []*qdrantclient.Condition{
			{
				ConditionOneOf: &qdrantclient.Condition_Field{
					Field: &qdrantclient.FieldCondition{
						Key: "topic_id",
						Match: &qdrantclient.Match{
							MatchValue: &qdrantclient.Match_Keyword{Keyword: topicID},
						},
					},
				},
			},
		},
	}
}

// pointID derives a stable UUID from the chunk identity so re-ingesting
// a file overwrites its old vectors instead of duplicating them.
func pointID(topicID, fileName string, chunkIndex int) string {
	name := fmt.Sprintf("%s/%s/%d", topicID, fileName, chunkIndex)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

func ptr[T any](v T) *T { return &v }
