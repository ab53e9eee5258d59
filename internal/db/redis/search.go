package redis

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"strconv"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/unirag/internal/db"
)

// SearchKNN runs a KNN vector similarity search via FT.SEARCH. Entry scores
// are cosine similarities (1 - distance), clamped to [0, 1].
func (s *Store) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if len(q.Vector) == 0 {
		return nil, fmt.Errorf("vector is required")
	}
	if q.K <= 0 {
		return nil, fmt.Errorf("k must be positive")
	}

	knnPart := fmt.Sprintf("[KNN %d @embedding $BLOB AS __score]", q.K)
	queryStr := "*=>" + knnPart
	if q.Filter != "" {
		queryStr = fmt.Sprintf("(%s)=>%s", q.Filter, knnPart)
	}

	returns := append([]string{"__score"}, q.Return...)

	args := []string{q.Index, queryStr, "RETURN", strconv.Itoa(len(returns))}
	args = append(args, returns...)
	args = append(args,
		"SORTBY", "__score",
		"LIMIT", "0", strconv.Itoa(q.K),
		"PARAMS", "2", "BLOB", vectorToBytes(q.Vector),
		"DIALECT", "2",
	)

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseResult(raw, knnScore)
}

// SearchText runs a lexical search via FT.SEARCH. Entry scores are zero;
// relevance is computed by the caller.
func (s *Store) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if q.Index == "" {
		return nil, fmt.Errorf("index name is required")
	}
	if q.Match == "" {
		return nil, fmt.Errorf("match fragment is required")
	}
	if q.Limit <= 0 {
		return nil, fmt.Errorf("limit must be positive")
	}

	queryStr := q.Match
	if q.Filter != "" {
		queryStr = q.Filter + " " + q.Match
	}

	args := []string{q.Index, queryStr}
	if len(q.Return) > 0 {
		args = append(args, "RETURN", strconv.Itoa(len(q.Return)))
		args = append(args, q.Return...)
	}
	if q.SortBy != "" {
		dir := "ASC"
		if q.SortDesc {
			dir = "DESC"
		}
		args = append(args, "SORTBY", q.SortBy, dir)
	}
	args = append(args, "LIMIT", "0", strconv.Itoa(q.Limit), "DIALECT", "2")

	cmd := s.b().Arbitrary("FT.SEARCH").Args(args...).Build()
	raw, err := s.do(ctx, cmd).ToArray()
	if err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: err}
	}

	return parseResult(raw, nil)
}

// scoreFn extracts a score from an entry's raw fields, possibly mutating
// the field map.
type scoreFn func(fields map[string]string) float64

// knnScore converts the cosine distance reported by the engine into a
// similarity in [0, 1].
func knnScore(fields map[string]string) float64 {
	raw, ok := fields["__score"]
	if !ok {
		return 0
	}
	delete(fields, "__score")
	d, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return math.Max(0, 1.0-d)
}

// parseResult decodes the RESP2 FT.SEARCH reply:
// [total, key1, fields1, key2, fields2, ...].
func parseResult(raw []rueidis.RedisMessage, score scoreFn) (*db.SearchResult, error) {
	if len(raw) == 0 {
		return &db.SearchResult{}, nil
	}

	total, err := raw[0].AsInt64()
	if err != nil {
		return nil, fmt.Errorf("parse total: %w", err)
	}
	if total == 0 {
		return &db.SearchResult{}, nil
	}

	entries := make([]db.SearchEntry, 0, total)
	for i := 1; i+1 < len(raw); i += 2 {
		key, err := raw[i].ToString()
		if err != nil {
			continue
		}
		fieldMsgs, err := raw[i+1].ToArray()
		if err != nil {
			continue
		}

		entry := db.SearchEntry{Key: key, Fields: parseFieldPairs(fieldMsgs)}
		if score != nil {
			entry.Score = score(entry.Fields)
		}
		entries = append(entries, entry)
	}

	return &db.SearchResult{Total: int(total), Entries: entries}, nil
}

func parseFieldPairs(fields []rueidis.RedisMessage) map[string]string {
	m := make(map[string]string, len(fields)/2)
	for j := 0; j+1 < len(fields); j += 2 {
		name, err := fields[j].ToString()
		if err != nil {
			continue
		}
		value, err := fields[j+1].ToString()
		if err != nil {
			continue
		}
		m[name] = value
	}
	return m
}

func vectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}
