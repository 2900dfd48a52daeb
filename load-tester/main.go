package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type Config struct {
	Endpoint      string
	Total         int
	Rate          int
	Concurrency   int
	ReplayPercent int
	SpreadDays    int
	Users         int
}

func parseFlags() *Config {
	c := &Config{}
	flag.StringVar(&c.Endpoint, "endpoint", "http://localhost:8080/events", "Search event ingestion URL")
	flag.IntVar(&c.Total, "total", 10000, "Total events")
	flag.IntVar(&c.Rate, "rate", 2000, "Events per second")
	flag.IntVar(&c.Concurrency, "concurrency", 0, "Worker count (0=auto)")
	flag.IntVar(&c.ReplayPercent, "replay-percent", 0, "Percent of events re-sent with an already used id")
	flag.IntVar(&c.SpreadDays, "spread-days", 30, "Spread event timestamps over this many past days")
	flag.IntVar(&c.Users, "users", 5000, "Distinct user ids")
	flag.Parse()

	if c.Endpoint == "" {
		fmt.Fprintln(os.Stderr, "Error: -endpoint is required")
		flag.Usage()
		os.Exit(1)
	}

	if c.Concurrency == 0 {
		c.Concurrency = c.Rate / 20
		if c.Concurrency < 50 {
			c.Concurrency = 50
		}
	}

	c.ReplayPercent = clamp(c.ReplayPercent, 0, 100)
	if c.SpreadDays < 1 {
		c.SpreadDays = 1
	}
	if c.Users < 1 {
		c.Users = 1
	}

	return c
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// searchEvent mirrors the service's ingestion payload.
type searchEvent struct {
	ID        string  `json:"id"`
	Query     string  `json:"query"`
	UserID    string  `json:"user_id"`
	Position  float64 `json:"position"`
	Clicked   bool    `json:"clicked"`
	Timestamp int64   `json:"timestamp"`
}

type Stats struct {
	ok      uint64
	errors  uint64
	latency int64 // microseconds
}

// EventPool keeps recently sent events so some can be replayed.
type EventPool struct {
	mu  sync.RWMutex
	buf []searchEvent
	max int
}

func NewEventPool(max int) *EventPool {
	return &EventPool{buf: make([]searchEvent, 0, max), max: max}
}

func (p *EventPool) Add(evt searchEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.buf) >= p.max {
		p.buf = p.buf[1:]
	}
	p.buf = append(p.buf, evt)
}

func (p *EventPool) GetRandom(rng *rand.Rand) (searchEvent, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.buf) == 0 {
		return searchEvent{}, false
	}
	return p.buf[rng.Intn(len(p.buf))], true
}

func (s *Stats) AddOK(duration time.Duration) {
	atomic.AddUint64(&s.ok, 1)
	atomic.AddInt64(&s.latency, duration.Microseconds())
}

func (s *Stats) AddError() {
	atomic.AddUint64(&s.errors, 1)
}

func (s *Stats) StartLogger(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Second)
	defer ticker.Stop()

	var lastOK, lastErr uint64

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ok := atomic.LoadUint64(&s.ok)
			errs := atomic.LoadUint64(&s.errors)
			latTotal := atomic.LoadInt64(&s.latency)

			curOK := ok - lastOK
			curErr := errs - lastErr
			lastOK, lastErr = ok, errs

			avgLat := 0.0
			if ok > 0 {
				avgLat = float64(latTotal) / float64(ok) / 1000.0
			}

			log.Printf("[STATS] 1s -> OK: %d | ERR: %d | AvgLat: %.2fms | Total OK: %d", curOK, curErr, avgLat, ok)
		}
	}
}

func main() {
	cfg := parseFlags()
	stats := &Stats{}
	pool := NewEventPool(10000)

	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        cfg.Concurrency,
			MaxIdleConnsPerHost: cfg.Concurrency,
			IdleConnTimeout:     90 * time.Second,
			DialContext: (&net.Dialer{
				Timeout:   5 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
		},
	}

	log.Printf("Sending search events: target=%s rate=%d/s total=%d workers=%d spread=%dd", cfg.Endpoint, cfg.Rate, cfg.Total, cfg.Concurrency, cfg.SpreadDays)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go stats.StartLogger(ctx)

	jobs := make(chan struct{}, cfg.Rate*2)
	var wg sync.WaitGroup
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	rngs := make([]*rand.Rand, cfg.Concurrency)
	for i := 0; i < cfg.Concurrency; i++ {
		rngs[i] = rand.New(rand.NewSource(rng.Int63()))
	}

	for i := 0; i < cfg.Concurrency; i++ {
		wg.Add(1)
		go startWorker(client, cfg, jobs, stats, pool, rngs[i], &wg)
	}

	remaining := cfg.Total
	for remaining > 0 {
		start := time.Now()
		batch := cfg.Rate
		if remaining < batch {
			batch = remaining
		}

		for i := 0; i < batch; i++ {
			jobs <- struct{}{}
		}
		remaining -= batch

		elapsed := time.Since(start)
		if elapsed < time.Second {
			time.Sleep(time.Second - elapsed)
		}
	}

	close(jobs)
	wg.Wait()

	log.Printf("DONE. Total OK: %d | Total Errors: %d", atomic.LoadUint64(&stats.ok), atomic.LoadUint64(&stats.errors))
}

func startWorker(client *http.Client, cfg *Config, jobs <-chan struct{}, stats *Stats, pool *EventPool, rng *rand.Rand, wg *sync.WaitGroup) {
	defer wg.Done()

	headers := http.Header{"Content-Type": []string{"application/json"}}
	gen := &generator{rng: rng, spreadDays: cfg.SpreadDays, users: cfg.Users}

	for range jobs {
		event := pickEvent(gen, pool, cfg.ReplayPercent)
		start := time.Now()

		if err := sendEvent(client, cfg.Endpoint, event, headers); err != nil {
			stats.AddError()
		} else {
			stats.AddOK(time.Since(start))
		}
	}
}

func sendEvent(client *http.Client, url string, event searchEvent, headers http.Header) error {
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header = headers

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	// Drain so the connection is reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}
	return nil
}

// queries is the vocabulary the generator draws from. Earlier entries are
// drawn more often.
var queries = []string{
	"react typescript tutorial", "graphql best practices", "tailwind css components",
	"node.js authentication", "javascript array methods", "react testing library",
	"mongodb aggregation", "css grid layout", "vue.js composition api",
	"docker container tutorial", "python machine learning", "aws lambda functions",
	"redux toolkit guide", "nextjs server components", "typescript interfaces",
	"express.js middleware", "react native navigation", "svelte vs react",
	"webpack configuration", "graphql mutations",
}

type generator struct {
	rng        *rand.Rand
	spreadDays int
	users      int
	seq        uint64
}

func (g *generator) next() searchEvent {
	// Squaring a uniform draw skews toward the head of the vocabulary.
	u := g.rng.Float64()
	query := queries[int(u*u*float64(len(queries)))]

	position := 1 + g.rng.Intn(10)
	clickChance := 0.3 / float64(position)

	g.seq++
	spread := int64(g.spreadDays) * 24 * 60 * 60
	return searchEvent{
		ID:        fmt.Sprintf("evt-%x-%d", g.rng.Uint64(), g.seq),
		Query:     query,
		UserID:    fmt.Sprintf("user_%d", g.rng.Intn(g.users)),
		Position:  float64(position),
		Clicked:   g.rng.Float64() < clickChance,
		Timestamp: time.Now().Unix() - g.rng.Int63n(spread),
	}
}

func pickEvent(gen *generator, pool *EventPool, replayPercent int) searchEvent {
	if replayPercent > 0 && gen.rng.Intn(100) < replayPercent {
		if evt, ok := pool.GetRandom(gen.rng); ok {
			return evt
		}
	}
	evt := gen.next()
	pool.Add(evt)
	return evt
}
