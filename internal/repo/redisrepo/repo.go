package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/rueidis"

	"github.com/milad/meterreads/internal/domain"
	"github.com/milad/meterreads/internal/repo"
)

// Compile-time check: Repo implements repo.ReadingRepository.
var _ repo.ReadingRepository = (*Repo)(nil)

// Config holds connection parameters for a Redis-compatible server.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// NewClient creates a rueidis client for cfg.
func NewClient(cfg Config) (rueidis.Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

// Repo keeps readings in a sorted set scored by reading time in unix milliseconds.
type Repo struct {
	client rueidis.Client
	key    string
}

func New(client rueidis.Client, keyPrefix string) *Repo {
	return &Repo{client: client, key: keyPrefix + "meter_reads"}
}

// member is the sorted-set payload. Identical readings collapse into one member.
type member struct {
	Cumulative  float64 `json:"cumulative"`
	ReadingDate string  `json:"readingDate"`
	Unit        string  `json:"unit"`
}

func (r *Repo) List(ctx context.Context, startInclusive *time.Time, endExclusive *time.Time) ([]domain.Reading, error) {
	lo, hi := "-inf", "+inf"
	if startInclusive != nil {
		lo = strconv.FormatInt(startInclusive.UnixMilli(), 10)
	}
	if endExclusive != nil {
		hi = "(" + strconv.FormatInt(endExclusive.UnixMilli(), 10)
	}

	cmd := r.client.B().Zrange().Key(r.key).Min(lo).Max(hi).Byscore().Build()
	raw, err := r.client.Do(ctx, cmd).AsStrSlice()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return []domain.Reading{}, nil
		}
		return nil, fmt.Errorf("zrange %s: %w", r.key, err)
	}

	out := make([]domain.Reading, 0, len(raw))
	for _, s := range raw {
		rd, err := decodeMember(s)
		if err != nil {
			return nil, err
		}
		out = append(out, rd)
	}
	return out, nil
}

func (r *Repo) Insert(ctx context.Context, readings ...domain.Reading) error {
	if len(readings) == 0 {
		return nil
	}
	cmd := r.client.B().Zadd().Key(r.key).ScoreMember()
	for _, rd := range readings {
		m, err := encodeMember(rd)
		if err != nil {
			return err
		}
		cmd = cmd.ScoreMember(float64(rd.ReadingDate.UnixMilli()), m)
	}
	if err := r.client.Do(ctx, cmd.Build()).Error(); err != nil {
		return fmt.Errorf("zadd %s: %w", r.key, err)
	}
	return nil
}

func (r *Repo) Ping(ctx context.Context) error {
	if err := r.client.Do(ctx, r.client.B().Ping().Build()).Error(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

func (r *Repo) Close() {
	r.client.Close()
}

func encodeMember(rd domain.Reading) (string, error) {
	b, err := json.Marshal(member{
		Cumulative:  rd.Cumulative,
		ReadingDate: domain.FormatReadingDate(rd.ReadingDate),
		Unit:        rd.Unit,
	})
	if err != nil {
		return "", fmt.Errorf("encode reading: %w", err)
	}
	return string(b), nil
}

func decodeMember(s string) (domain.Reading, error) {
	var m member
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		return domain.Reading{}, fmt.Errorf("decode reading %q: %w", s, err)
	}
	t, err := domain.ParseReadingDate(m.ReadingDate)
	if err != nil {
		return domain.Reading{}, fmt.Errorf("decode reading %q: %w", s, err)
	}
	return domain.Reading{ReadingDate: t, Cumulative: m.Cumulative, Unit: m.Unit}, nil
}
