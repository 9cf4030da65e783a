// Package translate is the gateway to the machine translation service.
// Callers always get a string back: when the service cannot help, the
// source text is returned unchanged.
package translate

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/time/rate"
)

// MaxTextLength is the longest input, in characters, sent to the service.
const MaxTextLength = 5000

type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// Cache stores finished translations. A miss is reported with ok == false.
type Cache interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

type Options struct {
	URL      string
	APIKey   string
	Source   string
	Interval time.Duration
	Burst    int
	Timeout  time.Duration

	Cache      Cache
	HTTPClient *http.Client
}

// Client calls a LibreTranslate compatible endpoint. A single token bucket
// paces every outgoing call, across all requests sharing the Client.
type Client struct {
	url     string
	apiKey  string
	source  string
	timeout time.Duration
	limiter *rate.Limiter
	cache   Cache
	http    *http.Client
}

func New(opts Options) *Client {
	if opts.Source == "" {
		opts.Source = "en"
	}
	if opts.Interval <= 0 {
		opts.Interval = time.Second
	}
	if opts.Burst < 1 {
		opts.Burst = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	return &Client{
		url:     opts.URL,
		apiKey:  opts.APIKey,
		source:  opts.Source,
		timeout: opts.Timeout,
		limiter: rate.NewLimiter(rate.Every(opts.Interval), opts.Burst),
		cache:   opts.Cache,
		http:    opts.HTTPClient,
	}
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
	APIKey string `json:"api_key,omitempty"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
}

func (c *Client) Translate(ctx context.Context, text, target string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		log.Printf("translate: text of %d characters exceeds limit, keeping source", utf8.RuneCountInString(text))
		return text
	}
	tag, err := language.Parse(target)
	if err != nil {
		log.Printf("translate: invalid target language %q: %v", target, err)
		return text
	}
	target = tag.String()

	key := CacheKey(target, text)
	if c.cache != nil {
		cached, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Printf("translate: cache read failed: %v", err)
		} else if ok {
			return cached
		}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		log.Printf("translate: rate limiter: %v", err)
		return text
	}

	translated, err := c.call(ctx, text, target)
	if err != nil {
		log.Printf("translate: falling back to source text: %v", err)
		return text
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, translated); err != nil {
			log.Printf("translate: cache write failed: %v", err)
		}
	}
	return translated
}

func (c *Client) call(ctx context.Context, text, target string) (string, error) {
	body, err := json.Marshal(request{
		Q:      text,
		Source: c.source,
		Target: target,
		Format: "text",
		APIKey: c.apiKey,
	})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if strings.TrimSpace(out.TranslatedText) == "" {
		return "", fmt.Errorf("empty translation")
	}
	return out.TranslatedText, nil
}

// CacheKey identifies a translation of text into target.
func CacheKey(target, text string) string {
	sum := sha256.Sum256([]byte(text))
	return "translate:" + target + ":" + hex.EncodeToString(sum[:])
}
